package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"leek/internal/playback"
)

const (
	// Room beside the progress bar for the time label and the box border.
	progressReserve = 24
	// Lines outside the browser list: header, blank, now-playing box,
	// status, help.
	chromeHeight = 10
)

func (m model) listHeight() int {
	h := m.height - chromeHeight
	if m.help.ShowAll {
		h -= 4
	}
	if h < 3 {
		h = 3
	}
	return h
}

func (m model) View() string {
	header := m.styles.header.Render(
		runewidth.Truncate("leek  "+m.browser.CurrentPath(), m.width-2, "…"))

	parts := []string{
		header,
		"",
		m.renderBrowser(),
		m.renderNowPlaying(),
		m.renderStatus(),
		"  " + m.help.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m model) renderBrowser() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	height := m.listHeight()

	entries := m.browser.VisibleEntries()
	selected := m.browser.VisibleSelectedIndex()

	lines := make([]string, 0, height)
	if len(entries) == 0 {
		lines = append(lines, m.styles.muted.Render("   (no folders or audio files here)"))
	}
	for i, entry := range entries {
		name := entry.Name
		if entry.IsDir {
			name += "/"
		}
		text := runewidth.Truncate(name, width-3, "…")

		switch {
		case i == selected:
			lines = append(lines, m.styles.selected.Width(width).Render("> "+text))
		case entry.IsDir:
			lines = append(lines, m.styles.dir.Render("  "+text))
		default:
			lines = append(lines, m.styles.file.Render("  "+text))
		}
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m model) renderNowPlaying() string {
	snap := m.player.Snapshot()

	var icon string
	switch snap.State {
	case playback.Playing:
		icon = m.spinner.View()
	case playback.Paused:
		icon = "‖"
	default:
		icon = "■"
	}

	title := "Nothing playing"
	if snap.TrackName != "" {
		title = snap.TrackName
	}
	inner := m.width - 8
	if inner < 20 {
		inner = 20
	}
	title = runewidth.Truncate(title, inner-20, "…")

	position := ""
	if snap.Length > 0 {
		position = fmt.Sprintf("%d/%d", snap.Position, snap.Length)
	}
	info := fmt.Sprintf("%s %s  %s  %s  vol %d%%",
		icon,
		m.styles.title.Render(title),
		m.styles.muted.Render(string(snap.State)),
		m.styles.muted.Render(position),
		snap.Volume)

	bar := m.progress.ViewAs(progressPercent(snap)) + " " + timeLabel(snap)

	return m.styles.box.Width(inner + 4).Render(info + "\n" + bar)
}

func (m model) renderStatus() string {
	if m.err != nil {
		msg := strings.ReplaceAll(m.err.Error(), "\n", "; ")
		return m.styles.err.Render(runewidth.Truncate(msg, m.width-4, "…"))
	}
	return m.styles.muted.PaddingLeft(2).Render(m.status)
}

func progressPercent(snap playback.Snapshot) float64 {
	if !snap.HasTotal || snap.Total <= 0 {
		return 0
	}
	p := float64(snap.Elapsed) / float64(snap.Total)
	if p > 1 {
		p = 1
	}
	return p
}

func timeLabel(snap playback.Snapshot) string {
	total := "--:--"
	if snap.HasTotal {
		total = formatDuration(snap.Total)
	}
	return formatDuration(snap.Elapsed) + " / " + total
}

// formatDuration renders m:ss, or h:mm:ss from one hour on.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	h, m, s := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

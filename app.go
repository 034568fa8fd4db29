package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"leek/internal/browser"
	"leek/internal/config"
	"leek/internal/logger"
	"leek/internal/playback"
)

type tickMsg time.Time

// dirChangedMsg is sent when the directory being browsed changed on disk.
type dirChangedMsg struct{}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return dirChangedMsg{}
	}
}

type model struct {
	player   *playback.Controller
	browser  *browser.Browser
	watcher  *browser.Watcher
	interval time.Duration

	themeName string
	styles    styles
	keys      keyMap
	help      help.Model
	progress  progress.Model
	spinner   spinner.Model

	width  int
	height int
	status string
	err    error
}

func newModel(player *playback.Controller, b *browser.Browser, w *browser.Watcher, settings config.Settings) model {
	m := model{
		player:   player,
		browser:  b,
		watcher:  w,
		interval: settings.TickInterval(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithoutPercentage()),
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		width:    80,
		height:   24,
	}
	m.applyTheme(settings.Theme)
	m.watch()
	return m
}

func (m *model) applyTheme(name string) {
	theme := config.LookupTheme(name)
	m.themeName = name
	m.styles = newStyles(theme)
	m.progress.FullColor = theme.Primary
	m.progress.EmptyColor = theme.Muted
	m.spinner.Style = m.styles.title
	m.help.Styles.ShortKey = m.styles.title
	m.help.Styles.FullKey = m.styles.title
}

// watch points the directory watcher at the browser's current directory.
func (m *model) watch() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Watch(m.browser.CurrentPath()); err != nil {
		logger.Warn("Cannot watch directory",
			logger.String("path", m.browser.CurrentPath()),
			logger.ErrorField(err))
	}
}

func (m model) changes() <-chan struct{} {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Changes()
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.interval), m.spinner.Tick, waitForChange(m.changes()))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if err := m.player.Tick(); err != nil {
			m.setResult(err)
		}
		return m, tickCmd(m.interval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dirChangedMsg:
		if err := m.browser.Refresh(); err != nil {
			m.setResult(err)
		}
		return m, waitForChange(m.changes())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = msg.Width - progressReserve
		if m.progress.Width < 10 {
			m.progress.Width = 10
		}
		m.browser.SetViewportHeight(m.listHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.player.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		m.setResult(m.player.TogglePlayPause())

	case key.Matches(msg, m.keys.Enter):
		intent, err := m.browser.EnterSelected()
		if err != nil {
			m.setResult(err)
			break
		}
		if intent.Kind == browser.IntentNone {
			m.watch()
			break
		}
		m.play(intent)

	case key.Matches(msg, m.keys.PlayFolder):
		m.play(m.browser.PlaySelectedFolder())

	case key.Matches(msg, m.keys.Back):
		if err := m.browser.GoUp(); err != nil {
			m.setResult(err)
			break
		}
		m.watch()

	case key.Matches(msg, m.keys.Prev):
		m.setResult(m.player.Previous())

	case key.Matches(msg, m.keys.Next):
		m.setResult(m.player.Next())

	case key.Matches(msg, m.keys.Up):
		m.browser.MoveUp()

	case key.Matches(msg, m.keys.Down):
		m.browser.MoveDown()

	case key.Matches(msg, m.keys.VolUp):
		m.player.VolumeUp()

	case key.Matches(msg, m.keys.VolDown):
		m.player.VolumeDown()

	case key.Matches(msg, m.keys.Stop):
		m.player.Stop()
		m.status = ""

	case key.Matches(msg, m.keys.Theme):
		m.applyTheme(config.NextTheme(m.themeName))
		m.status = "Theme: " + config.LookupTheme(m.themeName).Name

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.browser.SetViewportHeight(m.listHeight())
	}
	return m, nil
}

func (m *model) play(intent browser.Intent) {
	before := m.player.Snapshot().QueueID

	var err error
	switch intent.Kind {
	case browser.IntentPlayFile:
		err = m.player.PlayTrack(intent.Path)
	case browser.IntentPlayFolder:
		err = m.player.PlayFolder(intent.Path)
	default:
		return
	}
	m.setResult(err)

	if snap := m.player.Snapshot(); err == nil && snap.QueueID != before {
		m.status = fmt.Sprintf("Queued %d track(s) from %s", snap.Length, filepath.Base(intent.Path))
	}
}

// setResult records the outcome of a user action for the status line. A nil
// error clears the previous one.
func (m *model) setResult(err error) {
	m.err = err
	if err == nil {
		return
	}
	m.status = ""

	var loadErr *playback.TrackLoadError
	if errors.Is(err, playback.ErrAllTracksFailed) || errors.As(err, &loadErr) {
		// Already logged by the controller.
		return
	}
	logger.Warn("Action failed", logger.ErrorField(err))
}

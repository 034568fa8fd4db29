package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"leek/internal/browser"
	"leek/internal/config"
	"leek/internal/playback"
)

type stubSource struct {
	stopped  bool
	finished bool
}

func (s *stubSource) Start()        {}
func (s *stubSource) Pause()        {}
func (s *stubSource) Resume()       {}
func (s *stubSource) Stop()         { s.stopped = true }
func (s *stubSource) SetVolume(int) {}
func (s *stubSource) Finished() bool {
	return s.finished
}
func (s *stubSource) TotalDuration() (time.Duration, bool) {
	return 3 * time.Minute, true
}

type stubOpener struct {
	bad    map[string]bool
	opened []*stubSource
}

func (o *stubOpener) Open(path string) (playback.Source, error) {
	if o.bad[filepath.Base(path)] {
		return nil, errors.New("unreadable")
	}
	src := &stubSource{}
	o.opened = append(o.opened, src)
	return src, nil
}

// newTestModel builds a model over a directory holding an "album" folder
// with two tracks and a loose track next to it.
func newTestModel(t *testing.T, bad ...string) (model, *stubOpener, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "album"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, f := range []string{"album/01.mp3", "album/02.mp3", "single.flac"} {
		if err := os.WriteFile(filepath.Join(root, f), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	b, err := browser.New(root)
	if err != nil {
		t.Fatal(err)
	}
	opener := &stubOpener{bad: map[string]bool{}}
	for _, name := range bad {
		opener.bad[name] = true
	}
	player := playback.New(opener)
	return newModel(player, b, nil, config.DefaultSettings()), opener, root
}

func press(t *testing.T, m model, msgs ...tea.KeyMsg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEnterPlaysSelectedFile(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, keyDown, keyEnter)

	snap := m.player.Snapshot()
	if snap.State != playback.Playing || snap.TrackName != "single" {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Length != 1 {
		t.Errorf("single file should be a queue of one, got %d", snap.Length)
	}
}

func TestEnterDirectoryDoesNotTouchPlayback(t *testing.T) {
	m, opener, root := newTestModel(t)
	m = press(t, m, keyEnter)

	if m.browser.CurrentPath() != filepath.Join(root, "album") {
		t.Errorf("CurrentPath = %q", m.browser.CurrentPath())
	}
	if len(opener.opened) != 0 || m.player.State() != playback.Stopped {
		t.Error("entering a directory should not start playback")
	}

	m = press(t, m, keyBack)
	if m.browser.CurrentPath() != root {
		t.Errorf("CurrentPath after backspace = %q", m.browser.CurrentPath())
	}
}

func TestPlayFolderAndSkip(t *testing.T) {
	m, opener, _ := newTestModel(t)
	m = press(t, m, keyTab)

	snap := m.player.Snapshot()
	if snap.TrackName != "01" || snap.Position != 1 || snap.Length != 2 {
		t.Fatalf("after tab: %+v", snap)
	}
	if m.status != "Queued 2 track(s) from album" {
		t.Errorf("status = %q", m.status)
	}

	m = press(t, m, keyRight)
	if got := m.player.Snapshot().TrackName; got != "02" {
		t.Errorf("after next: %q", got)
	}
	if !opener.opened[0].stopped {
		t.Error("previous source should be stopped")
	}

	m = press(t, m, keyLeft)
	if got := m.player.Snapshot().TrackName; got != "01" {
		t.Errorf("after previous: %q", got)
	}
}

func TestTickAdvancesFinishedTrack(t *testing.T) {
	m, opener, _ := newTestModel(t)
	m = press(t, m, keyTab)

	opener.opened[0].finished = true
	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if got := m.player.Snapshot().TrackName; got != "02" {
		t.Errorf("after finished tick: %q", got)
	}
}

func TestPlayPauseAndStop(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, keyTab, keySpace)
	if m.player.State() != playback.Paused {
		t.Errorf("after space: %s", m.player.State())
	}
	m = press(t, m, keySpace)
	if m.player.State() != playback.Playing {
		t.Errorf("after second space: %s", m.player.State())
	}
	m = press(t, m, runeKey("s"))
	if m.player.State() != playback.Stopped {
		t.Errorf("after s: %s", m.player.State())
	}
}

func TestVolumeKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, runeKey("+"), runeKey("+"))
	if got := m.player.Volume(); got != 60 {
		t.Errorf("volume = %d, expected 60", got)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	if got := m.player.Volume(); got != 55 {
		t.Errorf("volume = %d, expected 55", got)
	}
}

func TestFailedTrackShowsError(t *testing.T) {
	m, _, _ := newTestModel(t, "single.flac")
	m = press(t, m, keyDown, keyEnter)

	if !errors.Is(m.err, playback.ErrAllTracksFailed) {
		t.Fatalf("err = %v, expected all tracks failed", m.err)
	}
	if m.player.State() != playback.Stopped {
		t.Errorf("state = %s", m.player.State())
	}
	if !strings.Contains(m.renderStatus(), "single.flac") {
		t.Error("status line should name the failed file")
	}

	m = press(t, m, keyUp, keyTab)
	if m.err != nil {
		t.Errorf("a successful action should clear the error, got %v", m.err)
	}
}

func TestThemeCycles(t *testing.T) {
	m, _, _ := newTestModel(t)
	start := m.themeName
	m = press(t, m, runeKey("t"))
	if m.themeName == start {
		t.Error("theme did not change")
	}
	if m.themeName != config.NextTheme(start) {
		t.Errorf("theme = %q, expected %q", m.themeName, config.NextTheme(start))
	}
}

func TestQuitStopsPlayback(t *testing.T) {
	m, opener, _ := newTestModel(t)
	m = press(t, m, keyTab)

	_, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if !opener.opened[0].stopped {
		t.Error("quitting should stop the live source")
	}
}

func TestWindowResizeSetsViewport(t *testing.T) {
	m, _, _ := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(model)
	if m.listHeight() != 30 {
		t.Errorf("listHeight = %d, expected 30", m.listHeight())
	}
	if m.progress.Width != 100-progressReserve {
		t.Errorf("progress width = %d", m.progress.Width)
	}
}

func TestViewShowsNowPlaying(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, keyTab)
	if !strings.Contains(m.View(), "album/") {
		t.Error("view should list the browsed directory")
	}
	panel := m.renderNowPlaying()
	for _, want := range []string{"01", "1/2", "0:00 / 3:00", "vol 50%"} {
		if !strings.Contains(panel, want) {
			t.Errorf("now playing panel missing %q", want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59 * time.Second, "0:59"},
		{61*time.Second + 900*time.Millisecond, "1:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.expected {
			t.Errorf("formatDuration(%v) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"leek/internal/queue"
)

var ErrNotAudio = errors.New("selected entry is not a playable file")

// Entry is one row of a directory listing.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	IsAudio bool
}

// IntentKind says what the player should do with a selection.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentPlayFile
	IntentPlayFolder
)

// Intent is a request from the browser to the player.
type Intent struct {
	Kind IntentKind
	Path string
}

// Browser keeps the current directory, its listing and a selection cursor.
// It is independent from playback: browsing never changes what is playing.
type Browser struct {
	currentPath    string
	entries        []Entry
	selected       int
	viewportTop    int
	viewportHeight int
}

func New(startPath string) (*Browser, error) {
	abs, err := filepath.Abs(startPath)
	if err != nil {
		return nil, err
	}
	b := &Browser{
		currentPath:    abs,
		viewportHeight: 20,
	}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b, nil
}

// Refresh re-reads the current directory and keeps the cursor on the same
// entry when it still exists.
func (b *Browser) Refresh() error {
	var previous string
	if entry, ok := b.Selected(); ok {
		previous = entry.Name
	}

	entries, err := list(b.currentPath)
	if err != nil {
		return err
	}
	b.entries = entries

	b.selected = 0
	for i, e := range b.entries {
		if e.Name == previous {
			b.selected = i
			break
		}
	}
	b.adjustViewport()
	return nil
}

func list(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var dirs, files []Entry
	for _, de := range dirEntries {
		if strings.HasPrefix(de.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, de.Name())

		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(path); err == nil {
				isDir = info.IsDir()
			}
		}

		switch {
		case isDir:
			dirs = append(dirs, Entry{Name: de.Name(), Path: path, IsDir: true})
		case queue.IsAudio(de.Name()):
			files = append(files, Entry{Name: de.Name(), Path: path, IsAudio: true})
		}
	}

	sortEntries(dirs)
	sortEntries(files)
	return append(dirs, files...), nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if a != b {
			return a < b
		}
		return entries[i].Name < entries[j].Name
	})
}

func (b *Browser) CurrentPath() string {
	return b.currentPath
}

func (b *Browser) Entries() []Entry {
	return b.entries
}

func (b *Browser) SelectedIndex() int {
	return b.selected
}

func (b *Browser) Selected() (Entry, bool) {
	if b.selected >= 0 && b.selected < len(b.entries) {
		return b.entries[b.selected], true
	}
	return Entry{}, false
}

// EnterSelected descends into a selected directory, or asks for a selected
// audio file to be played.
func (b *Browser) EnterSelected() (Intent, error) {
	entry, ok := b.Selected()
	if !ok {
		return Intent{}, nil
	}
	if entry.IsDir {
		return Intent{}, b.enter(entry.Path)
	}
	if entry.IsAudio {
		return Intent{Kind: IntentPlayFile, Path: entry.Path}, nil
	}
	return Intent{}, ErrNotAudio
}

// PlaySelectedFolder asks for the selected directory to be played as a
// queue. On a file it queues the directory being browsed instead.
func (b *Browser) PlaySelectedFolder() Intent {
	entry, ok := b.Selected()
	if ok && entry.IsDir {
		return Intent{Kind: IntentPlayFolder, Path: entry.Path}
	}
	return Intent{Kind: IntentPlayFolder, Path: b.currentPath}
}

// GoUp moves to the parent directory and selects the directory we came from.
func (b *Browser) GoUp() error {
	parent := filepath.Dir(b.currentPath)
	if parent == b.currentPath {
		return nil
	}
	child := filepath.Base(b.currentPath)

	entries, err := list(parent)
	if err != nil {
		return err
	}
	b.currentPath = parent
	b.entries = entries
	b.selected = 0
	for i, e := range entries {
		if e.Name == child {
			b.selected = i
			break
		}
	}
	b.viewportTop = 0
	b.adjustViewport()
	return nil
}

// enter lists path before switching to it, so a permission error leaves the
// browser where it was.
func (b *Browser) enter(path string) error {
	entries, err := list(path)
	if err != nil {
		return err
	}
	b.currentPath = path
	b.entries = entries
	b.selected = 0
	b.viewportTop = 0
	return nil
}

func (b *Browser) MoveUp() {
	if b.selected > 0 {
		b.selected--
		b.adjustViewport()
	}
}

func (b *Browser) MoveDown() {
	if b.selected < len(b.entries)-1 {
		b.selected++
		b.adjustViewport()
	}
}

func (b *Browser) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	b.viewportHeight = height
	b.adjustViewport()
}

// adjustViewport keeps the selected entry visible.
func (b *Browser) adjustViewport() {
	if b.selected < b.viewportTop {
		b.viewportTop = b.selected
	} else if b.selected >= b.viewportTop+b.viewportHeight {
		b.viewportTop = b.selected - b.viewportHeight + 1
	}
	if b.viewportTop < 0 {
		b.viewportTop = 0
	}
}

// VisibleEntries returns the slice of entries that fits the viewport.
func (b *Browser) VisibleEntries() []Entry {
	if len(b.entries) == 0 {
		return nil
	}
	end := b.viewportTop + b.viewportHeight
	if end > len(b.entries) {
		end = len(b.entries)
	}
	return b.entries[b.viewportTop:end]
}

func (b *Browser) VisibleSelectedIndex() int {
	return b.selected - b.viewportTop
}

package queue

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var (
	ErrInvalidTrack   = errors.New("not a recognized audio file")
	ErrEmptyDirectory = errors.New("no playable files in directory")
)

// Supported audio extensions, lower case with the leading dot
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// IsAudio reports whether path has a recognized audio extension.
func IsAudio(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Track is one playable file. It is never modified after being queued.
type Track struct {
	Path string // Absolute path
	Name string // Filename without extension
}

func newTrack(path string) Track {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	base := filepath.Base(path)
	return Track{
		Path: path,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

// Direction selects which way Advance moves the cursor.
type Direction int

const (
	Next Direction = iota
	Previous
)

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// Queue is an ordered list of tracks with a cursor. A Queue is never empty
// once built; the zero value is an empty queue with no cursor.
type Queue struct {
	id     string
	tracks []Track
	index  int
}

// FromFile builds a single-track queue.
func FromFile(path string) (*Queue, error) {
	if !IsAudio(path) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrInvalidTrack)
	}
	return newQueue([]Track{newTrack(path)}), nil
}

// FromDirectory builds a queue of every recognized audio file directly inside
// dir, sorted by filename.
func FromDirectory(dir string) (*Queue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return !e.IsDir() && IsAudio(e.Name())
	})
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrEmptyDirectory)
	}

	names := lo.Map(files, func(e os.DirEntry, _ int) string {
		return e.Name()
	})
	sortNames(names)

	tracks := lo.Map(names, func(name string, _ int) Track {
		return newTrack(filepath.Join(dir, name))
	})
	return newQueue(tracks), nil
}

// sortNames orders case-insensitively, falling back to byte order so that
// names differing only in case still sort deterministically.
func sortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a != b {
			return a < b
		}
		return names[i] < names[j]
	})
}

func newQueue(tracks []Track) *Queue {
	return &Queue{
		id:     uuid.NewString(),
		tracks: tracks,
		index:  0,
	}
}

// ID identifies this particular build of a queue.
func (q *Queue) ID() string {
	if q == nil {
		return ""
	}
	return q.id
}

func (q *Queue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.tracks)
}

// Index returns the cursor, or false if the queue is empty.
func (q *Queue) Index() (int, bool) {
	if q.Len() == 0 {
		return 0, false
	}
	return q.index, true
}

// Current returns the track at the cursor.
func (q *Queue) Current() (Track, bool) {
	if q.Len() == 0 {
		return Track{}, false
	}
	return q.tracks[q.index], true
}

// Advance moves the cursor one step in the given direction without wrapping.
// It returns false when the cursor is already at that end of the queue; for
// Next this means the queue is exhausted.
func (q *Queue) Advance(dir Direction) bool {
	if q.Len() == 0 {
		return false
	}
	switch dir {
	case Next:
		if q.index >= len(q.tracks)-1 {
			return false
		}
		q.index++
	case Previous:
		if q.index == 0 {
			return false
		}
		q.index--
	default:
		return false
	}
	return true
}

// Position returns the 1-based cursor position and the queue length, or
// (0, 0) for an empty queue.
func (q *Queue) Position() (int, int) {
	idx, ok := q.Index()
	if !ok {
		return 0, 0
	}
	return idx + 1, q.Len()
}

package playback

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrAllTracksFailed = errors.New("no track in the queue could be played")

// TrackLoadError is returned when the backend cannot open or decode a track.
// It is never fatal; the controller moves on to the next queue entry.
type TrackLoadError struct {
	Path string
	Err  error
}

func (e *TrackLoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *TrackLoadError) Unwrap() error {
	return e.Err
}

// AllTracksFailedError aggregates every load failure seen while trying to
// start playback, so the UI can show one notice instead of one per file.
type AllTracksFailedError struct {
	Failures []*TrackLoadError
}

func (e *AllTracksFailedError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("%v: %v", ErrAllTracksFailed, e.Failures[0])
	}
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, filepath.Base(f.Path))
	}
	return fmt.Sprintf("%v (%d failed: %s)", ErrAllTracksFailed, len(e.Failures), strings.Join(names, ", "))
}

func (e *AllTracksFailedError) Is(target error) bool {
	return target == ErrAllTracksFailed
}

func (e *AllTracksFailedError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

package playback

import "time"

// Source is a single opened track on the audio backend. The controller owns
// it exclusively: nothing else may start, stop or re-volume it.
type Source interface {
	Start()
	Pause()
	Resume()
	// Stop releases the output stream and the underlying file. It must be safe
	// to call more than once.
	Stop()
	// SetVolume takes a percentage in [0, 100].
	SetVolume(percent int)
	// Finished reports natural end of stream. It never blocks and is the only
	// state the backend updates from its own goroutine.
	Finished() bool
	TotalDuration() (time.Duration, bool)
}

// Opener decodes a file into a Source without starting output.
type Opener interface {
	Open(path string) (Source, error)
}

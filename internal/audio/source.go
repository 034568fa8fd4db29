package audio

import (
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// source is one decoded file routed to the speaker. Apart from finished,
// which the speaker goroutine sets, it is only touched by its owner.
type source struct {
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	total    time.Duration
	hasTotal bool

	started  bool
	stopped  bool
	finished atomic.Bool
}

// newSource routes out through a paused Ctrl and a volume stage. streamer and
// file are what Stop closes.
func newSource(path string, file *os.File, streamer beep.StreamSeekCloser, out beep.Streamer) *source {
	ctrl := &beep.Ctrl{Streamer: out, Paused: true}
	return &source{
		path:     path,
		file:     file,
		streamer: streamer,
		ctrl:     ctrl,
		volume:   &effects.Volume{Streamer: ctrl, Base: 2},
	}
}

// output is what the speaker plays: the volume stage followed by a marker
// that flags natural completion.
func (s *source) output() beep.Streamer {
	return beep.Seq(s.volume, beep.Callback(func() {
		s.finished.Store(true)
	}))
}

func (s *source) Start() {
	if s.started || s.stopped {
		return
	}
	s.started = true

	speaker.Lock()
	s.ctrl.Paused = false
	speaker.Unlock()

	speaker.Play(s.output())
}

func (s *source) Pause() {
	s.setPaused(true)
}

func (s *source) Resume() {
	s.setPaused(false)
}

func (s *source) setPaused(paused bool) {
	if s.stopped {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
}

// Stop detaches the stream from the speaker before closing the decoder, so the
// speaker never reads from a closed file.
func (s *source) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true

	speaker.Lock()
	s.ctrl.Paused = true
	s.ctrl.Streamer = nil
	speaker.Unlock()

	s.streamer.Close()
	s.file.Close()
}

func (s *source) SetVolume(percent int) {
	speaker.Lock()
	applyVolume(s.volume, percent)
	speaker.Unlock()
}

// Finished is only true after the stream ran out on its own.
func (s *source) Finished() bool {
	return s.finished.Load() && !s.stopped
}

func (s *source) TotalDuration() (time.Duration, bool) {
	return s.total, s.hasTotal
}

// applyVolume maps a percentage onto the base-2 gain of effects.Volume:
// 100% is unity gain, 50% halves the amplitude and 0% is silent.
func applyVolume(v *effects.Volume, percent int) {
	if percent <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	if percent > 100 {
		percent = 100
	}
	v.Silent = false
	v.Volume = math.Log2(float64(percent) / 100)
}

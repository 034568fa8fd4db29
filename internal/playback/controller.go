package playback

import (
	"errors"
	"time"

	"leek/internal/logger"
	"leek/internal/queue"
)

// State of the transport.
type State string

const (
	Stopped State = "stopped"
	Playing State = "playing"
	Paused  State = "paused"
)

const (
	DefaultVolume = 50
	volumeStep    = 5
)

// Snapshot is a read-only copy of what the UI needs to draw the player.
type Snapshot struct {
	State     State
	QueueID   string
	TrackName string
	Elapsed   time.Duration
	Total     time.Duration
	HasTotal  bool
	Volume    int
	Position  int // 1-based, 0 when the queue is empty
	Length    int
	Err       error // Last playback error, cleared by the next successful start
}

// Controller is the playback state machine. It owns the queue and the live
// Source. It is not safe for concurrent use: all intents and Tick must come
// from the same goroutine.
type Controller struct {
	opener Opener
	now    func() time.Time

	queue    *queue.Queue
	source   Source
	state    State
	elapsed  time.Duration
	total    time.Duration
	hasTotal bool
	volume   int
	lastTick time.Time
	lastErr  error
}

type Option func(*Controller)

// WithClock replaces time.Now for elapsed time accounting.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithVolume sets the starting volume percentage.
func WithVolume(percent int) Option {
	return func(c *Controller) {
		c.volume = clampVolume(percent)
	}
}

func New(opener Opener, opts ...Option) *Controller {
	c := &Controller{
		opener: opener,
		now:    time.Now,
		state:  Stopped,
		volume: DefaultVolume,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlayTrack replaces the queue with a single file and starts it.
func (c *Controller) PlayTrack(path string) error {
	q, err := queue.FromFile(path)
	if err != nil {
		return err
	}
	return c.replaceQueue(q)
}

// PlayFolder replaces the queue with the sorted audio files of dir and starts
// the first one.
func (c *Controller) PlayFolder(dir string) error {
	q, err := queue.FromDirectory(dir)
	if err != nil {
		return err
	}
	return c.replaceQueue(q)
}

func (c *Controller) replaceQueue(q *queue.Queue) error {
	c.teardown()
	c.queue = q
	logger.Info("Queue replaced",
		logger.String("queue", q.ID()),
		logger.Int("tracks", q.Len()))
	return c.startCurrent()
}

// TogglePlayPause pauses or resumes. From Stopped it restarts the track under
// the cursor; with nothing queued it does nothing.
func (c *Controller) TogglePlayPause() error {
	switch c.state {
	case Playing:
		c.advanceElapsed(c.now())
		c.source.Pause()
		c.state = Paused
	case Paused:
		c.source.Resume()
		c.lastTick = c.now()
		c.state = Playing
	case Stopped:
		if c.queue.Len() == 0 {
			return nil
		}
		return c.startCurrent()
	}
	return nil
}

// Next moves to the following track. At the last track it stops instead.
func (c *Controller) Next() error {
	if c.queue.Len() == 0 {
		return nil
	}
	c.teardown()
	c.logMove(queue.Next)
	if !c.queue.Advance(queue.Next) {
		logger.Info("Queue exhausted", logger.String("queue", c.queue.ID()))
		c.settleStopped()
		return nil
	}
	return c.startCurrent()
}

// Previous moves to the preceding track, or restarts the first one.
func (c *Controller) Previous() error {
	if c.queue.Len() == 0 {
		return nil
	}
	c.teardown()
	c.logMove(queue.Previous)
	c.queue.Advance(queue.Previous)
	return c.startCurrent()
}

// Stop tears down the live source but keeps the queue and cursor.
func (c *Controller) Stop() {
	c.settleStopped()
}

func (c *Controller) VolumeUp() {
	c.SetVolume(c.volume + volumeStep)
}

func (c *Controller) VolumeDown() {
	c.SetVolume(c.volume - volumeStep)
}

// SetVolume clamps percent to [0, 100] and applies it to the live source.
func (c *Controller) SetVolume(percent int) {
	c.volume = clampVolume(percent)
	if c.source != nil {
		c.source.SetVolume(c.volume)
	}
}

func (c *Controller) Volume() int {
	return c.volume
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Elapsed() time.Duration {
	return c.elapsed
}

// Tick advances elapsed time by the wall clock delta since the previous tick
// and moves on when the backend reports natural completion. It is the only
// place auto-advance happens.
func (c *Controller) Tick() error {
	if c.state != Playing {
		return nil
	}
	c.advanceElapsed(c.now())
	if c.source.Finished() {
		logger.Debug("Track finished", logger.Duration("elapsed", c.elapsed))
		return c.Next()
	}
	return nil
}

// Close releases the live source. The controller stays usable.
func (c *Controller) Close() {
	c.settleStopped()
}

func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:    c.state,
		QueueID:  c.queue.ID(),
		Elapsed:  c.elapsed,
		Total:    c.total,
		HasTotal: c.hasTotal,
		Volume:   c.volume,
		Err:      c.lastErr,
	}
	if track, ok := c.queue.Current(); ok {
		snap.TrackName = track.Name
	}
	snap.Position, snap.Length = c.queue.Position()
	return snap
}

// startCurrent opens the track under the cursor, skipping forward past
// entries that fail to load. At most one attempt per queue entry is made.
// AllTracksFailed is only reported when every entry of the queue failed.
func (c *Controller) startCurrent() error {
	var failures []*TrackLoadError

	for attempt := 0; attempt < c.queue.Len(); attempt++ {
		track, _ := c.queue.Current()
		src, err := c.opener.Open(track.Path)
		if err == nil {
			c.begin(track, src)
			if len(failures) > 0 {
				c.lastErr = joinLoadErrors(failures)
				return c.lastErr
			}
			c.lastErr = nil
			return nil
		}

		var loadErr *TrackLoadError
		if !errors.As(err, &loadErr) {
			loadErr = &TrackLoadError{Path: track.Path, Err: err}
		}
		logger.Warn("Skipping unplayable track",
			logger.String("path", track.Path),
			logger.ErrorField(err))
		failures = append(failures, loadErr)

		if !c.queue.Advance(queue.Next) {
			break
		}
	}

	c.settleStopped()
	if len(failures) < c.queue.Len() {
		// Earlier entries were not tried in this walk; the queue ran out.
		c.lastErr = joinLoadErrors(failures)
		logger.Info("Queue exhausted", logger.String("queue", c.queue.ID()))
		return c.lastErr
	}
	c.lastErr = &AllTracksFailedError{Failures: failures}
	logger.Error("No playable track", logger.ErrorField(c.lastErr))
	return c.lastErr
}

func (c *Controller) begin(track queue.Track, src Source) {
	c.source = src
	c.source.SetVolume(c.volume)
	c.total, c.hasTotal = src.TotalDuration()
	c.elapsed = 0
	c.lastTick = c.now()
	c.state = Playing
	c.source.Start()

	logger.Info("Playing track",
		logger.String("path", track.Path),
		logger.Duration("total", c.total),
		logger.Bool("has_total", c.hasTotal),
		logger.Int("volume", c.volume))
}

func (c *Controller) logMove(dir queue.Direction) {
	pos, n := c.queue.Position()
	logger.Debug("Moving cursor",
		logger.String("direction", dir.String()),
		logger.Int("position", pos),
		logger.Int("tracks", n))
}

func (c *Controller) teardown() {
	if c.source != nil {
		c.source.Stop()
		c.source = nil
	}
}

func (c *Controller) settleStopped() {
	c.teardown()
	c.state = Stopped
	c.elapsed = 0
	c.total = 0
	c.hasTotal = false
}

func (c *Controller) advanceElapsed(now time.Time) {
	if delta := now.Sub(c.lastTick); delta > 0 {
		c.elapsed += delta
	}
	c.lastTick = now
	if c.hasTotal && c.elapsed > c.total {
		c.elapsed = c.total
	}
}

func clampVolume(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

func joinLoadErrors(failures []*TrackLoadError) error {
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

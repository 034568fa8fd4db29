package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"leek/internal/logger"
	"leek/internal/playback"
)

const (
	outputSampleRate = beep.SampleRate(44100)
	resampleQuality  = 4
)

// Backend opens local files as playable sources on the system speaker.
type Backend struct {
	mu          sync.Mutex
	sampleRate  beep.SampleRate
	speakerInit bool
}

func NewBackend() *Backend {
	return &Backend{sampleRate: outputSampleRate}
}

// initSpeaker initializes the speaker on first use, so a machine without an
// audio device can still browse.
func (b *Backend) initSpeaker() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.speakerInit {
		return nil
	}
	if err := speaker.Init(b.sampleRate, b.sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	b.speakerInit = true
	logger.Info("Speaker initialized", logger.Int("sample_rate", int(b.sampleRate)))
	return nil
}

// Open decodes path and prepares it for output. Nothing is heard until Start.
func (b *Backend) Open(path string) (playback.Source, error) {
	if err := b.initSpeaker(); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := decode(path, file)
	if err != nil {
		file.Close()
		return nil, err
	}
	logger.Debug("Decoded track",
		logger.String("path", path),
		logger.Int("sample_rate", int(format.SampleRate)),
		logger.Int("channels", format.NumChannels))

	var total time.Duration
	hasTotal := false
	if n := streamer.Len(); n > 0 {
		total, hasTotal = format.SampleRate.D(n), true
	} else {
		total, hasTotal = ReadDuration(path)
	}

	resampled := beep.Resample(resampleQuality, format.SampleRate, b.sampleRate, streamer)
	src := newSource(path, file, streamer, resampled)
	src.total, src.hasTotal = total, hasTotal
	return src, nil
}

// Close silences and releases the speaker.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.speakerInit {
		return
	}
	speaker.Clear()
	speaker.Close()
	b.speakerInit = false
}

func decode(path string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return mp3.Decode(rc)
	case ".wav":
		return wav.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	case ".ogg":
		return vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported format: %s", ext)
	}
}

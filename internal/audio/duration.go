package audio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/tcolgate/mp3"

	gowav "github.com/go-audio/wav"
)

// ReadDuration reads the length of an audio file from its container without
// decoding it for playback. It is used when the playback decoder cannot tell.
func ReadDuration(path string) (time.Duration, bool) {
	var d time.Duration
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		d = mp3Duration(path)
	case ".flac":
		d = flacDuration(path)
	case ".wav":
		d = wavDuration(path)
	case ".ogg":
		d = oggDuration(path)
	}
	return d, d > 0
}

// mp3Duration sums frame durations, which also covers VBR files.
func mp3Duration(path string) time.Duration {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer file.Close()

	decoder := mp3.NewDecoder(file)
	var (
		frame   mp3.Frame
		skipped int
		total   time.Duration
	)
	for {
		if err := decoder.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0
		}
		total += frame.Duration()
	}
	return total
}

func flacDuration(path string) time.Duration {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return 0
	}
	defer stream.Close()

	info := stream.Info
	if info == nil || info.SampleRate == 0 || info.NSamples == 0 {
		return 0
	}
	return samplesToDuration(int64(info.NSamples), int64(info.SampleRate))
}

func wavDuration(path string) time.Duration {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer file.Close()

	decoder := gowav.NewDecoder(file)
	if err := decoder.FwdToPCM(); err != nil {
		return 0
	}
	frameSize := int64(decoder.NumChans) * int64(decoder.BitDepth) / 8
	if frameSize == 0 || decoder.SampleRate == 0 {
		return 0
	}
	return samplesToDuration(int64(decoder.PCMSize)/frameSize, int64(decoder.SampleRate))
}

func oggDuration(path string) time.Duration {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer file.Close()

	reader, err := oggvorbis.NewReader(file)
	if err != nil {
		return 0
	}
	if reader.SampleRate() == 0 {
		return 0
	}
	return samplesToDuration(reader.Length(), int64(reader.SampleRate()))
}

func samplesToDuration(samples, sampleRate int64) time.Duration {
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

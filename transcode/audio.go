// Package transcode turns audio files into mono float64 PCM at their native
// sample rate. WAV files are read directly; everything else goes through
// ffmpeg when it is installed.
package transcode

import (
	"errors"
	"time"

	"github.com/RyanBlaney/soundscape/soundscape/indices"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrNoSamples         = errors.New("no audio samples decoded")
)

// AudioData is a decoded recording, downmixed to one channel.
type AudioData struct {
	PCM        []float64      `json:"-"`
	SampleRate int            `json:"sample_rate"`
	Channels   int            `json:"channels"` // channels in the source file
	BitDepth   int            `json:"bit_depth,omitempty"`
	Duration   time.Duration  `json:"duration"`
	Metadata   *AudioMetadata `json:"metadata,omitempty"`
}

// Signal wraps the samples for index computation.
func (a *AudioData) Signal(id string) indices.Signal {
	return indices.Signal{
		Samples:    a.PCM,
		SampleRate: a.SampleRate,
		ID:         id,
	}
}

func durationOf(samples, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}

// downmix averages interleaved channels.
func downmix(interleaved []float64, channels int) []float64 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	mono := make([]float64, frames)
	for i := range frames {
		var sum float64
		for c := range channels {
			sum += interleaved[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

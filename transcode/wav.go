package transcode

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// DecodeWAVFile reads an integer PCM WAV file.
func DecodeWAVFile(filename string) (*AudioData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	data, err := DecodeWAV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// DecodeWAV reads integer PCM WAV data and scales it to [-1, 1). Float and
// compressed WAV variants return ErrUnsupportedFormat.
func DecodeWAV(r io.ReadSeeker) (*AudioData, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %w", ErrUnsupportedFormat)
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("WAV format tag %d: %w", decoder.WavAudioFormat, ErrUnsupportedFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not read PCM buffer: %w", err)
	}
	if len(buf.Data) == 0 {
		return nil, ErrNoSamples
	}

	channels := buf.Format.NumChannels
	pcm := downmix(intToFloat(buf), channels)

	return &AudioData{
		PCM:        pcm,
		SampleRate: buf.Format.SampleRate,
		Channels:   channels,
		BitDepth:   buf.SourceBitDepth,
		Duration:   durationOf(len(pcm), buf.Format.SampleRate),
		Metadata: &AudioMetadata{
			SampleRate: buf.Format.SampleRate,
			Channels:   channels,
			Codec:      "pcm",
			Format:     "wav",
		},
	}, nil
}

func intToFloat(buf *audio.IntBuffer) []float64 {
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = 16
	}
	scale := float64(int64(1) << (depth - 1))

	out := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		// 8-bit WAV samples are unsigned
		if depth == 8 {
			v -= 128
		}
		out[i] = float64(v) / scale
	}
	return out
}

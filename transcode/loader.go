package transcode

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/RyanBlaney/soundscape/logging"
)

var ffmpegExtensions = []string{".flac", ".mp3", ".ogg"}

// Loader picks a decoder by file extension.
type Loader struct {
	ffmpeg *Decoder
	logger logging.Logger
}

func NewLoader(config *DecoderConfig) *Loader {
	return &Loader{
		ffmpeg: NewDecoder(config),
		logger: logging.WithFields(logging.Fields{
			"component": "audio_loader",
		}),
	}
}

// Extensions lists the lower-case extensions Load accepts on this machine.
func (l *Loader) Extensions() []string {
	exts := []string{".wav"}
	if l.ffmpeg.Available() {
		exts = append(exts, ffmpegExtensions...)
	}
	return exts
}

// Supports reports whether Load accepts filename.
func (l *Loader) Supports(filename string) bool {
	return slices.Contains(l.Extensions(), strings.ToLower(filepath.Ext(filename)))
}

// Load decodes filename. Non-PCM WAV files fall back to ffmpeg when it is
// available.
func (l *Loader) Load(ctx context.Context, filename string) (*AudioData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case ext == ".wav":
		data, err := DecodeWAVFile(filename)
		if errors.Is(err, ErrUnsupportedFormat) && l.ffmpeg.Available() {
			l.logger.Debug("Falling back to ffmpeg for WAV", logging.Fields{
				"filename": filename,
				"reason":   err.Error(),
			})
			return l.ffmpeg.DecodeFile(ctx, filename)
		}
		return data, err

	case slices.Contains(ffmpegExtensions, ext):
		if err := l.ffmpeg.checkFFmpegAvailability(); err != nil {
			return nil, fmt.Errorf("%s needs ffmpeg: %w: %v", filename, ErrUnsupportedFormat, err)
		}
		return l.ffmpeg.DecodeFile(ctx, filename)

	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
}

package indices

import (
	"fmt"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/RyanBlaney/soundscape/algorithms/spectral"
	"github.com/RyanBlaney/soundscape/algorithms/temporal"
	"github.com/RyanBlaney/soundscape/logging"
)

// Signal is a decoded mono recording. ID is only used in logs and errors.
type Signal struct {
	Samples    []float64
	SampleRate int
	ID         string
}

// Duration returns the signal length in seconds.
func (s Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

func (s Signal) validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", common.ErrInvalidParams, s.SampleRate)
	}
	if len(s.Samples) == 0 {
		return fmt.Errorf("%w: empty signal", common.ErrSignalTooShort)
	}
	return nil
}

// Calculator evaluates soundscape indices. Every index method returns a nil
// result and a nil error when its section is disabled, so callers can tell
// "not computed" from a computed zero.
//
// A Calculator is meant to be used from one goroutine; the batch processor
// creates one per worker.
type Calculator struct {
	engine   *spectral.Engine
	envelope *temporal.Envelope
	logger   logging.Logger
}

// NewCalculator creates a calculator backed by engine. A nil engine gets a
// fresh one with the default cache size.
func NewCalculator(engine *spectral.Engine) *Calculator {
	if engine == nil {
		engine = spectral.NewEngine(spectral.DefaultCacheSize)
	}
	return &Calculator{
		engine:   engine,
		envelope: temporal.NewEnvelope(),
		logger: logging.WithFields(logging.Fields{
			"component": "index_calculator",
		}),
	}
}

// Engine returns the spectrogram engine shared by all indices.
func (c *Calculator) Engine() *spectral.Engine {
	return c.engine
}

func (c *Calculator) spectrogram(sig Signal, p spectral.Params) (*spectral.Spectrogram, error) {
	if err := sig.validate(); err != nil {
		return nil, err
	}
	return c.engine.Compute(sig.Samples, sig.SampleRate, p)
}

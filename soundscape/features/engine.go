// Package features computes frame-level spectral descriptors (flatness,
// flux, rolloff, slope, crest factor, zero crossing rate, MFCC, LPC) for a
// recording. Each descriptor is framed with its own block and step size and
// returned as a [frame][column] matrix.
package features

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/soundscape/algorithms/spectral"
	"github.com/RyanBlaney/soundscape/logging"
	"github.com/RyanBlaney/soundscape/soundscape/config"
	"github.com/RyanBlaney/soundscape/soundscape/indices"
)

// Engine extracts the enabled descriptors of a FeaturesConfig. It holds no
// per-recording state and is safe for concurrent use.
type Engine struct {
	config config.FeaturesConfig
	names  []string
	logger logging.Logger
}

// NewEngine creates an engine for the enabled descriptors in cfg. Unknown
// descriptor names are rejected.
func NewEngine(cfg config.FeaturesConfig) (*Engine, error) {
	names := cfg.Enabled()
	for _, name := range names {
		if _, ok := descriptors[name]; !ok {
			return nil, fmt.Errorf("unknown frame descriptor %q", name)
		}
	}

	return &Engine{
		config: cfg,
		names:  names,
		logger: logging.WithFields(logging.Fields{
			"component": "feature_engine",
		}),
	}, nil
}

// Names returns the enabled descriptor names in sorted order.
func (e *Engine) Names() []string {
	return e.names
}

// Extract computes every enabled descriptor of sig. Descriptors that fail
// are left out of the result and reported as joined *indices.IndexError
// values; the others are still returned.
func (e *Engine) Extract(sig indices.Signal) (map[string][][]float64, error) {
	if len(e.names) == 0 {
		return nil, nil
	}

	ctx := &frameContext{
		signal: sig,
		// descriptors sharing a block/step pair reuse one spectrogram
		engine: spectral.NewEngine(len(e.names)),
	}

	out := make(map[string][][]float64, len(e.names))
	var errs []error
	for _, name := range e.names {
		matrix, err := descriptors[name](ctx, e.config[name].Params)
		if err != nil {
			e.logger.Debug("Descriptor failed", logging.Fields{
				"recording":  sig.ID,
				"descriptor": name,
				"error":      err.Error(),
			})
			errs = append(errs, &indices.IndexError{Index: name, Recording: sig.ID, Err: err})
			continue
		}
		out[name] = matrix
	}

	return out, errors.Join(errs...)
}

// frameContext carries the recording and a spectrogram engine through the
// descriptors of one Extract call.
type frameContext struct {
	signal indices.Signal
	engine *spectral.Engine
}

// spectrogram returns the Hann-windowed magnitude frames for a block/step
// pair as a [frame][bin] matrix plus the bin frequencies.
func (c *frameContext) spectrogram(p config.FeatureParams) ([][]float64, []float64, error) {
	if c.signal.SampleRate <= 0 || len(c.signal.Samples) == 0 {
		return nil, nil, fmt.Errorf("%w: empty signal or sample rate %d",
			indices.ErrInvalidParams, c.signal.SampleRate)
	}

	spec, err := c.engine.Compute(c.signal.Samples, c.signal.SampleRate, spectral.Params{
		WindowLength: p.BlockSize,
		Hop:          p.StepSize,
		WindowType:   "hann",
	})
	if err != nil {
		return nil, nil, err
	}
	return transpose(spec.Magnitude), spec.Frequencies, nil
}

func transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make([][]float64, len(m[0]))
	for t := range out {
		row := make([]float64, len(m))
		for k := range m {
			row[k] = m[k][t]
		}
		out[t] = row
	}
	return out
}

// column wraps a per-frame scalar series as a one-column matrix.
func column(values []float64) [][]float64 {
	out := make([][]float64, len(values))
	for i, v := range values {
		out[i] = []float64{v}
	}
	return out
}

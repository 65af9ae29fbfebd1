package spectral

import (
	"fmt"
	"sync/atomic"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/RyanBlaney/soundscape/algorithms/windowing"
	"github.com/RyanBlaney/soundscape/logging"
)

// DefaultCacheSize is the number of spectrograms an Engine keeps by default.
const DefaultCacheSize = 10

// Params selects the STFT framing of a spectrogram.
type Params struct {
	WindowLength int    `yaml:"win_len" json:"win_len"`
	Hop          int    `yaml:"hop" json:"hop"`
	WindowType   string `yaml:"win_type" json:"win_type"`
}

// DefaultParams returns a 512-sample Hanning window with 50% overlap.
func DefaultParams() Params {
	return Params{
		WindowLength: 512,
		Hop:          256,
		WindowType:   string(windowing.Hann),
	}
}

// Validate checks the framing parameters.
func (p Params) Validate() error {
	if p.WindowLength <= 0 {
		return fmt.Errorf("%w: window length must be positive, got %d", common.ErrInvalidParams, p.WindowLength)
	}
	if p.Hop <= 0 {
		return fmt.Errorf("%w: hop must be positive, got %d", common.ErrInvalidParams, p.Hop)
	}
	if _, err := windowing.ParseType(p.WindowType); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidParams, err)
	}
	return nil
}

// Spectrogram is a magnitude STFT. Magnitude is indexed [bin][frame] and
// Frequencies holds the centre frequency of each bin. Values returned by an
// Engine may be shared through its cache and must not be modified.
type Spectrogram struct {
	Magnitude   [][]float64 `json:"magnitude"`
	Frequencies []float64   `json:"frequencies"`
	SampleRate  int         `json:"sample_rate"`
	Params      Params      `json:"params"`
}

// Bins returns the number of frequency bins (rows).
func (s *Spectrogram) Bins() int {
	return len(s.Magnitude)
}

// Frames returns the number of time frames (columns).
func (s *Spectrogram) Frames() int {
	if len(s.Magnitude) == 0 {
		return 0
	}
	return len(s.Magnitude[0])
}

// BinWidth returns the frequency resolution in Hz.
func (s *Spectrogram) BinWidth() float64 {
	return float64(s.SampleRate) / float64(s.Params.WindowLength)
}

// FrameCount returns the number of full frames a signal of n samples yields.
func FrameCount(n, windowLength, hop int) int {
	if n < windowLength || hop <= 0 {
		return 0
	}
	return (n-windowLength)/hop + 1
}

// CacheStats reports spectrogram cache usage.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Engine computes magnitude spectrograms and memoises them in a bounded
// LRU cache keyed by signal content and framing. An Engine may be shared
// between goroutines, but the batch processor gives each worker its own.
type Engine struct {
	cache  *spectrogramCache
	logger logging.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewEngine creates an engine with an LRU cache of cacheSize entries.
// cacheSize <= 0 disables caching.
func NewEngine(cacheSize int) *Engine {
	return &Engine{
		cache: newSpectrogramCache(cacheSize),
		logger: logging.WithFields(logging.Fields{
			"component": "spectrogram_engine",
		}),
	}
}

// Compute returns the magnitude spectrogram of samples. Frames start every
// hop samples; each frame is multiplied by a symmetric window and
// transformed with a real FFT, and bins 0..L/2-1 are kept (the Nyquist bin
// is dropped). The frequency axis is k*fs/L.
func (e *Engine) Compute(samples []float64, sampleRate int, params Params) (*Spectrogram, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", common.ErrInvalidParams, sampleRate)
	}

	numFrames := FrameCount(len(samples), params.WindowLength, params.Hop)
	if numFrames < 1 {
		return nil, fmt.Errorf("%w: %d samples for window length %d",
			common.ErrSignalTooShort, len(samples), params.WindowLength)
	}

	// canonical window name so "hann" and "hanning" share an entry
	kind, _ := windowing.ParseType(params.WindowType)
	params.WindowType = string(kind)

	key := newCacheKey(samples, sampleRate, params)
	if spec, ok := e.cache.get(key); ok {
		e.hits.Add(1)
		e.logger.Debug("Spectrogram cache hit", logging.Fields{
			"win_len": params.WindowLength,
			"hop":     params.Hop,
		})
		return spec, nil
	}
	e.misses.Add(1)

	spec, err := computeSpectrogram(samples, sampleRate, params, numFrames)
	if err != nil {
		return nil, err
	}

	if evicted := e.cache.add(key, spec); evicted {
		e.logger.Debug("Spectrogram cache eviction")
	}
	return spec, nil
}

// Stats returns cache counters.
func (e *Engine) Stats() CacheStats {
	return CacheStats{
		Hits:   e.hits.Load(),
		Misses: e.misses.Load(),
		Size:   e.cache.len(),
	}
}

// Purge drops all cached spectrograms.
func (e *Engine) Purge() {
	e.cache.purge()
}

func computeSpectrogram(samples []float64, sampleRate int, params Params, numFrames int) (*Spectrogram, error) {
	window, err := windowing.New(params.WindowType, params.WindowLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidParams, err)
	}

	numBins := params.WindowLength / 2
	if numBins < 1 {
		return nil, fmt.Errorf("%w: window length %d yields no frequency bins",
			common.ErrInvalidParams, params.WindowLength)
	}

	magnitude := make([][]float64, numBins)
	for k := range magnitude {
		magnitude[k] = make([]float64, numFrames)
	}

	plan := NewRealPlan(params.WindowLength)
	frame := make([]float64, params.WindowLength)
	column := make([]float64, numBins)

	for t := range numFrames {
		start := t * params.Hop
		copy(frame, samples[start:start+params.WindowLength])
		if err := window.ApplyInPlace(frame); err != nil {
			return nil, err
		}
		plan.Magnitudes(column, frame)
		for k, v := range column {
			magnitude[k][t] = v
		}
	}

	binWidth := float64(sampleRate) / float64(params.WindowLength)
	frequencies := make([]float64, numBins)
	for k := range frequencies {
		frequencies[k] = float64(k) * binWidth
	}

	return &Spectrogram{
		Magnitude:   magnitude,
		Frequencies: frequencies,
		SampleRate:  sampleRate,
		Params:      params,
	}, nil
}

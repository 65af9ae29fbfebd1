// Package soundscape computes soundscape ecology indices for decoded
// recordings and merges them into flat records. Analyzer handles one
// recording at a time; Processor runs many through a pool of workers.
package soundscape

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/soundscape/algorithms/spectral"
	"github.com/RyanBlaney/soundscape/logging"
	"github.com/RyanBlaney/soundscape/soundscape/config"
	"github.com/RyanBlaney/soundscape/soundscape/indices"
)

// FailurePolicy decides what ComputeAll returns when an index fails.
type FailurePolicy int

const (
	// OmitFailedIndices returns the record without the failed keys.
	OmitFailedIndices FailurePolicy = iota

	// DropRecord returns no record at all.
	DropRecord
)

func (p FailurePolicy) String() string {
	switch p {
	case OmitFailedIndices:
		return "omit"
	case DropRecord:
		return "drop"
	default:
		return "unknown"
	}
}

// ParseFailurePolicy maps "omit" or "drop" to a FailurePolicy.
func ParseFailurePolicy(name string) (FailurePolicy, error) {
	switch name {
	case "omit", "":
		return OmitFailedIndices, nil
	case "drop":
		return DropRecord, nil
	default:
		return OmitFailedIndices, fmt.Errorf("unknown failure policy %q", name)
	}
}

// FeatureEngine supplies frame-level descriptors as [frame][column]
// matrices keyed by descriptor name. The analyzer only averages them.
type FeatureEngine interface {
	Extract(sig indices.Signal) (map[string][][]float64, error)
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFailurePolicy sets what happens to a record with failed indices.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(a *Analyzer) {
		a.policy = p
	}
}

// WithFeatureEngine merges descriptor means after the indices.
func WithFeatureEngine(fe FeatureEngine) Option {
	return func(a *Analyzer) {
		a.features = fe
	}
}

// WithEngine shares a spectrogram engine instead of creating one sized by
// the configured cache.
func WithEngine(engine *spectral.Engine) Option {
	return func(a *Analyzer) {
		a.engine = engine
	}
}

// Analyzer computes every enabled index of a configuration.
type Analyzer struct {
	config   *config.Config
	engine   *spectral.Engine
	calc     *indices.Calculator
	features FeatureEngine
	policy   FailurePolicy
	logger   logging.Logger
}

// NewAnalyzer validates cfg and prepares an analyzer. A nil cfg uses
// config.Default().
func NewAnalyzer(cfg *config.Config, opts ...Option) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &Analyzer{
		config: cfg,
		policy: OmitFailedIndices,
		logger: logging.WithFields(logging.Fields{
			"component": "soundscape_analyzer",
		}),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.engine == nil {
		a.engine = spectral.NewEngine(cfg.Cache.Size)
	}
	a.calc = indices.NewCalculator(a.engine)

	return a, nil
}

// Engine returns the spectrogram engine used by the analyzer.
func (a *Analyzer) Engine() *spectral.Engine {
	return a.engine
}

// ComputeAll evaluates the enabled indices of sig and merges them into one
// record. Failed indices are logged and left out; their errors are joined in
// the returned error. Under DropRecord any failure yields a nil record.
func (a *Analyzer) ComputeAll(sig indices.Signal) (Record, error) {
	b := a.config.Bioacoustic
	record := make(Record)
	var errs []error

	fail := func(err error) {
		fields := logging.Fields{"recording": sig.ID}
		var ie *indices.IndexError
		if errors.As(err, &ie) {
			fields["index"] = ie.Index
		}
		a.logger.Error(err, "Index computation failed", fields)
		errs = append(errs, err)
	}
	scalar := func(key string, v *float64, err error) {
		switch {
		case err != nil:
			fail(err)
		case v != nil:
			record[key] = *v
		}
	}

	v, err := a.calc.AcousticComplexity(sig, b.ACI)
	scalar(config.IndexACI, v, err)

	v, err = a.calc.AcousticDiversity(sig, b.ADI)
	scalar(config.IndexADI, v, err)

	v, err = a.calc.Bioacoustic(sig, b.BI)
	scalar(config.IndexBI, v, err)

	v, err = a.calc.SpectralEntropy(sig, b.SpectralEntropy)
	scalar(config.IndexSpectralEntropy, v, err)

	v, err = a.calc.TemporalEntropy(sig, b.TemporalEntropy)
	scalar(config.IndexTemporalEntropy, v, err)

	v, err = a.calc.AcousticEvenness(sig, b.AEI)
	scalar(config.IndexAEI, v, err)

	if track, err := a.calc.SpectralCentroid(sig, b.SpectralCentroid); err != nil {
		fail(err)
	} else if track != nil {
		record[config.IndexSpectralCentroid] = track.Mean
	}

	if act, err := a.calc.AcousticActivity(sig, b.AcousticActivity); err != nil {
		fail(err)
	} else if act != nil {
		record[KeyActivitySNR] = act.SNR
		record[KeyActivityFraction] = act.Activity
		record[KeyActivityEvents] = float64(act.EventCount)
		record[KeyActivityDuration] = act.AverageDuration
	}

	if fm, err := a.calc.Formants(sig, b.Formants); err != nil {
		fail(err)
	} else if fm != nil {
		record[KeyFormantQ25] = fm.Quartiles.Q1
		record[KeyFormantQ50] = fm.Quartiles.Q2
		record[KeyFormantQ75] = fm.Quartiles.Q3
		record[KeyFormantIQR] = fm.Quartiles.IQR
		record[KeyFormantLen] = float64(fm.Quartiles.Count)
	}

	if a.features != nil {
		matrices, err := a.features.Extract(sig)
		if err != nil {
			fail(err)
		}
		a.mergeDescriptors(record, sig, matrices)
	}

	if len(errs) > 0 && a.policy == DropRecord {
		return nil, errors.Join(errs...)
	}
	return record, errors.Join(errs...)
}

func (a *Analyzer) mergeDescriptors(record Record, sig indices.Signal, matrices map[string][][]float64) {
	for name, matrix := range matrices {
		for key, mean := range descriptorMeans(name, matrix) {
			if _, taken := record[key]; taken {
				a.logger.Warn("Descriptor key collides with an index, skipping", logging.Fields{
					"recording": sig.ID,
					"key":       key,
				})
				continue
			}
			record[key] = mean
		}
	}
}

// FailedIndices lists the index or descriptor names carried by the
// *indices.IndexError values in err, which may be joined.
func FailedIndices(err error) []string {
	var names []string
	var walk func(error)
	walk = func(err error) {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				walk(e)
			}
			return
		}
		var ie *indices.IndexError
		if errors.As(err, &ie) {
			names = append(names, ie.Index)
		}
	}
	if err != nil {
		walk(err)
	}
	return names
}

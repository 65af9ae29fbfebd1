package indices

import (
	"fmt"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/RyanBlaney/soundscape/algorithms/stats"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

// SpectralEntropy is the Shannon entropy of the time-summed spectrum,
// normalised by ln(bins): near 0 for a pure tone, near 1 for white noise.
func (c *Calculator) SpectralEntropy(sig Signal, cfg config.SpectrogramConfig) (*float64, error) {
	if !cfg.Use {
		return nil, nil
	}

	spec, err := c.spectrogram(sig, cfg.Spectrogram)
	if err != nil {
		return nil, indexError(config.IndexSpectralEntropy, sig, err)
	}

	binSums := make([]float64, spec.Bins())
	for k, row := range spec.Magnitude {
		binSums[k] = common.Sum(row)
	}

	se, err := stats.NormalizedEntropy(binSums)
	if err != nil {
		return nil, indexError(config.IndexSpectralEntropy, sig, err)
	}
	return &se, nil
}

// TemporalEntropy is the Shannon entropy of the Hilbert envelope, normalised
// by ln(samples). It measures how evenly energy is spread over time.
func (c *Calculator) TemporalEntropy(sig Signal, cfg config.ToggleConfig) (*float64, error) {
	if !cfg.Use {
		return nil, nil
	}

	te, err := c.temporalEntropy(sig)
	if err != nil {
		return nil, indexError(config.IndexTemporalEntropy, sig, err)
	}
	return &te, nil
}

func (c *Calculator) temporalEntropy(sig Signal) (float64, error) {
	if err := sig.validate(); err != nil {
		return 0, err
	}
	if len(sig.Samples) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 samples", common.ErrSignalTooShort)
	}
	return stats.NormalizedEntropy(c.envelope.Hilbert(sig.Samples))
}

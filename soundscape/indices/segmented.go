package indices

import (
	"math"

	"github.com/RyanBlaney/soundscape/algorithms/spectral"
	"github.com/RyanBlaney/soundscape/algorithms/stats"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

// AcousticDiversity computes the Acoustic Diversity Index
// (Villanueva-Rivera et al. 2011): the Shannon entropy of the proportion of
// loud cells in each frequency band.
func (c *Calculator) AcousticDiversity(sig Signal, cfg config.SegmentedConfig) (*float64, error) {
	if !cfg.Use {
		return nil, nil
	}

	segmented, err := c.segment(sig, cfg.Params)
	if err != nil {
		return nil, indexError(config.IndexADI, sig, err)
	}

	adi, err := stats.ShannonEntropy(segmented.Proportions)
	if err != nil {
		return nil, indexError(config.IndexADI, sig, err)
	}
	return &adi, nil
}

// AcousticEvenness computes the Acoustic Evenness Index: the Gini
// coefficient of the same banded proportions ADI uses.
func (c *Calculator) AcousticEvenness(sig Signal, cfg config.SegmentedConfig) (*float64, error) {
	if !cfg.Use {
		return nil, nil
	}

	segmented, err := c.segment(sig, cfg.Params)
	if err != nil {
		return nil, indexError(config.IndexAEI, sig, err)
	}

	aei, err := stats.Gini(segmented.Proportions)
	if err != nil {
		return nil, indexError(config.IndexAEI, sig, err)
	}
	return &aei, nil
}

// segment clamps fs_max to the Nyquist frequency before banding.
func (c *Calculator) segment(sig Signal, p spectral.SegmentParams) (*spectral.SegmentedSpectrum, error) {
	if err := sig.validate(); err != nil {
		return nil, err
	}
	p.FsMax = math.Min(p.FsMax, float64(sig.SampleRate)/2)
	return c.engine.Segment(sig.Samples, sig.SampleRate, p)
}

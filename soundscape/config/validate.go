package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/RyanBlaney/soundscape/algorithms/spectral"
	"github.com/RyanBlaney/soundscape/algorithms/windowing"
)

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	Index  string
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s.%s: %s", e.Index, e.Param, e.Reason)
}

type validator struct {
	errs []error
}

func (v *validator) fail(index, param, format string, args ...any) {
	v.errs = append(v.errs, &ValidationError{
		Index:  index,
		Param:  param,
		Reason: fmt.Sprintf(format, args...),
	})
}

func (v *validator) positive(index, param string, value float64) {
	if !(value > 0) || math.IsInf(value, 0) {
		v.fail(index, param, "must be positive, got %g", value)
	}
}

func (v *validator) positiveInt(index, param string, value int) {
	if value <= 0 {
		v.fail(index, param, "must be positive, got %d", value)
	}
}

func (v *validator) finite(index, param string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		v.fail(index, param, "must be finite, got %g", value)
	}
}

func (v *validator) spectrogram(index string, p spectral.Params) {
	v.positiveInt(index, "spectrogram.win_len", p.WindowLength)
	v.positiveInt(index, "spectrogram.hop", p.Hop)
	if p.WindowLength == 1 {
		v.fail(index, "spectrogram.win_len", "must be at least 2 to produce a frequency bin")
	}
	if _, err := windowing.ParseType(p.WindowType); err != nil {
		v.fail(index, "spectrogram.win_type", "%v", err)
	}
}

func (v *validator) segmented(index string, p spectral.SegmentParams) {
	v.positive(index, "params.fs_max", p.FsMax)
	v.positive(index, "params.fs_step", p.FsStep)
	v.finite(index, "params.db_threshold", p.DBThreshold)
	if p.FsStep > p.FsMax {
		v.fail(index, "params.fs_step", "must not exceed fs_max (%g > %g)", p.FsStep, p.FsMax)
	}
}

// Validate checks every enabled section. Disabled sections are not checked.
// All problems are reported together as joined *ValidationError values.
func (c *Config) Validate() error {
	v := &validator{}
	b := c.Bioacoustic

	if b.ACI.Use {
		v.positive(IndexACI, "params.bin", b.ACI.Params.Bin)
		v.spectrogram(IndexACI, b.ACI.Spectrogram)
	}
	if b.ADI.Use {
		v.segmented(IndexADI, b.ADI.Params)
	}
	if b.BI.Use {
		p := b.BI.Params
		v.finite(IndexBI, "params.fs_min", p.FsMin)
		if p.FsMin < 0 {
			v.fail(IndexBI, "params.fs_min", "must not be negative, got %g", p.FsMin)
		}
		v.positive(IndexBI, "params.fs_max", p.FsMax)
		if p.FsMax <= p.FsMin {
			v.fail(IndexBI, "params.fs_max", "must exceed fs_min (%g <= %g)", p.FsMax, p.FsMin)
		}
		v.spectrogram(IndexBI, b.BI.Spectrogram)
	}
	if b.SpectralEntropy.Use {
		v.spectrogram(IndexSpectralEntropy, b.SpectralEntropy.Spectrogram)
	}
	if b.AEI.Use {
		v.segmented(IndexAEI, b.AEI.Params)
	}
	if b.SpectralCentroid.Use {
		v.spectrogram(IndexSpectralCentroid, b.SpectralCentroid.Spectrogram)
	}
	if b.AcousticActivity.Use {
		p := b.AcousticActivity.Params
		v.positiveInt(IndexAcousticActivity, "params.frame_len", p.FrameLen)
		v.finite(IndexAcousticActivity, "params.min_dB", p.MinDB)
		v.positive(IndexAcousticActivity, "params.dB_range", p.DBRange)
		v.positiveInt(IndexAcousticActivity, "params.hist_number_bins", p.HistNumberBins)
		v.positiveInt(IndexAcousticActivity, "params.hist_smoothing_kernel", p.HistSmoothingKernel)
		v.finite(IndexAcousticActivity, "params.activity_threshold_dB", p.ActivityThresholdDB)
		if p.N < 0 || math.IsNaN(p.N) || math.IsInf(p.N, 0) {
			v.fail(IndexAcousticActivity, "params.N", "must be a finite non-negative number, got %g", p.N)
		}
	}
	if b.Formants.Use && b.Formants.Params.Order != nil && *b.Formants.Params.Order < 1 {
		v.fail(IndexFormants, "params.order", "must be at least 1 or null, got %d", *b.Formants.Params.Order)
	}

	for _, name := range c.Spectral.Enabled() {
		if _, ok := DefaultFeatures()[name]; !ok {
			v.fail(name, "use", "unknown frame descriptor")
			continue
		}
		p := c.Spectral[name].Params
		v.positiveInt(name, "params.block_size", p.BlockSize)
		v.positiveInt(name, "params.step_size", p.StepSize)
		switch name {
		case "MFCC":
			v.positiveInt(name, "params.CepsNbCoeffs", p.CepsNbCoeffs)
			v.positiveInt(name, "params.MelNbFilters", p.MelNbFilters)
			if p.MelMinFreq < 0 || p.MelMaxFreq <= p.MelMinFreq {
				v.fail(name, "params.MelMaxFreq", "mel range [%g, %g] is empty", p.MelMinFreq, p.MelMaxFreq)
			}
			if c := p.CepsIgnoreFirstCoeff; c != nil && *c != 0 && *c != 1 {
				v.fail(name, "params.CepsIgnoreFirstCoeff", "must be 0 or 1, got %d", *c)
			}
		case "LPC":
			v.positiveInt(name, "params.LPCNbCoeffs", p.LPCNbCoeffs)
		case "SpectralRolloff":
			if !(p.RolloffPercent > 0 && p.RolloffPercent <= 1) {
				v.fail(name, "params.RolloffPercent", "must be in (0, 1], got %g", p.RolloffPercent)
			}
		}
	}

	return errors.Join(v.errs...)
}

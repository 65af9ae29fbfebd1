package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/RyanBlaney/soundscape/algorithms/windowing"
)

// SegmentParams configures a banded spectrum. FsMax is the upper frequency
// of interest and FsStep the width of each band, both in Hz.
type SegmentParams struct {
	FsMax       float64 `yaml:"fs_max" json:"fs_max"`
	FsStep      float64 `yaml:"fs_step" json:"fs_step"`
	DBThreshold float64 `yaml:"db_threshold" json:"db_threshold"`
}

// SegmentedSpectrum is the fraction of time-frequency cells above a dB
// threshold in each frequency band.
type SegmentedSpectrum struct {
	Proportions  []float64 `json:"proportions"`
	Boundaries   []int     `json:"boundaries"`
	WindowLength int       `json:"window_length"`
}

// Segment splits the spectrogram of samples into frequency bands and
// reports, for each band, the proportion of cells louder than
// DBThreshold relative to the global maximum.
//
// The analysis window is chosen so that one bin spans FsMax/FsStep Hz and
// the hop equals the window length. Band boundaries sit at multiples of
// FsStep below FsMax; the last band runs to the top bin.
func (e *Engine) Segment(samples []float64, sampleRate int, p SegmentParams) (*SegmentedSpectrum, error) {
	if p.FsMax <= 0 || p.FsStep <= 0 || math.IsNaN(p.FsMax) || math.IsNaN(p.FsStep) {
		return nil, fmt.Errorf("%w: fs_max and fs_step must be positive (got %g, %g)",
			common.ErrInvalidParams, p.FsMax, p.FsStep)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", common.ErrInvalidParams, sampleRate)
	}

	fsWin := p.FsMax / p.FsStep
	winLen := int(float64(sampleRate) / fsWin)
	if winLen < 2 {
		return nil, fmt.Errorf("%w: window length %d from fs_max=%g fs_step=%g",
			common.ErrInvalidParams, winLen, p.FsMax, p.FsStep)
	}

	spec, err := e.Compute(samples, sampleRate, Params{
		WindowLength: winLen,
		Hop:          winLen,
		WindowType:   string(windowing.Hann),
	})
	if err != nil {
		return nil, err
	}

	peak := 0.0
	for _, row := range spec.Magnitude {
		for _, v := range row {
			peak = math.Max(peak, v)
		}
	}
	if peak == 0 {
		return nil, fmt.Errorf("%w: spectrogram maximum is zero", common.ErrZeroEnergy)
	}

	var boundaries []int
	for i := 1; ; i++ {
		h := float64(i) * p.FsStep
		if h >= p.FsMax {
			break
		}
		boundaries = append(boundaries, int(h/fsWin))
	}

	result := &SegmentedSpectrum{
		Proportions:  make([]float64, 0, len(boundaries)+1),
		Boundaries:   boundaries,
		WindowLength: winLen,
	}

	lo := 0
	for b := 0; b <= len(boundaries); b++ {
		hi := spec.Bins()
		if b < len(boundaries) {
			hi = min(boundaries[b], spec.Bins())
		}
		lo = min(lo, hi)

		cells := (hi - lo) * spec.Frames()
		if cells <= 0 {
			return nil, fmt.Errorf("%w: band %d spans bins [%d, %d)", common.ErrEmptyBand, b, lo, hi)
		}

		above := 0
		for k := lo; k < hi; k++ {
			for _, v := range spec.Magnitude[k] {
				if common.AmplitudeToDB(v/peak) > p.DBThreshold {
					above++
				}
			}
		}
		result.Proportions = append(result.Proportions, float64(above)/float64(cells))
		lo = hi
	}

	return result, nil
}

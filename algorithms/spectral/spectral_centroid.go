package spectral

import (
	"fmt"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

// CentroidTrack holds the per-frame spectral centroid of a spectrogram.
// Frames with zero total magnitude have no centroid; Defined is false for
// them and their PerFrame entry is 0.
type CentroidTrack struct {
	PerFrame []float64 `json:"per_frame"`
	Defined  []bool    `json:"defined"`
	Mean     float64   `json:"mean"`
}

// SpectralCentroid computes the spectral centroid (center of mass) of a spectrum
type SpectralCentroid struct{}

// NewSpectralCentroid creates a new spectral centroid calculator
func NewSpectralCentroid() *SpectralCentroid {
	return &SpectralCentroid{}
}

// Compute calculates the centroid of one magnitude spectrum against its
// frequency axis. ok is false when the spectrum has no energy.
func (sc *SpectralCentroid) Compute(spectrum, frequencies []float64) (centroid float64, ok bool) {
	numerator := 0.0
	denominator := 0.0

	n := min(len(spectrum), len(frequencies))
	for i := range n {
		numerator += frequencies[i] * spectrum[i]
		denominator += spectrum[i]
	}

	if denominator == 0 {
		return 0, false
	}
	return numerator / denominator, true
}

// ComputeSpectrogram evaluates every frame of spec. The mean is taken over
// defined frames only; it fails with ErrZeroEnergy when no frame is defined.
func (sc *SpectralCentroid) ComputeSpectrogram(spec *Spectrogram) (*CentroidTrack, error) {
	frames := spec.Frames()
	track := &CentroidTrack{
		PerFrame: make([]float64, frames),
		Defined:  make([]bool, frames),
	}

	column := make([]float64, spec.Bins())
	sum := 0.0
	defined := 0
	for t := range frames {
		for k := range column {
			column[k] = spec.Magnitude[k][t]
		}
		c, ok := sc.Compute(column, spec.Frequencies)
		if !ok {
			continue
		}
		track.PerFrame[t] = c
		track.Defined[t] = true
		sum += c
		defined++
	}

	if defined == 0 {
		return nil, fmt.Errorf("%w: every frame is silent", common.ErrZeroEnergy)
	}
	track.Mean = sum / float64(defined)
	return track, nil
}

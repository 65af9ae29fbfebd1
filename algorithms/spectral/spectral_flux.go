package spectral

import (
	"math"
)

// SpectralFlux measures how much the spectral shape changes between
// consecutive frames. Each spectrum is scaled to unit L2 norm first so the
// value does not depend on loudness.
type SpectralFlux struct{}

// NewSpectralFlux creates a new spectral flux calculator
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// ComputeFrames returns one flux value per frame of a [frame][bin] matrix.
// The first frame has no predecessor and scores 0; a silent frame is
// compared as an all-zero spectrum.
func (sf *SpectralFlux) ComputeFrames(frames [][]float64) []float64 {
	flux := make([]float64, len(frames))

	var prev []float64
	for t, spectrum := range frames {
		current := unitNorm(spectrum)
		if prev != nil {
			sum := 0.0
			for f := 0; f < len(current) && f < len(prev); f++ {
				diff := current[f] - prev[f]
				sum += diff * diff
			}
			flux[t] = math.Sqrt(sum)
		}
		prev = current
	}

	return flux
}

func unitNorm(spectrum []float64) []float64 {
	out := make([]float64, len(spectrum))
	norm := 0.0
	for _, v := range spectrum {
		norm += v * v
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, v := range spectrum {
		out[i] = v / norm
	}
	return out
}

package spectral

import (
	"math"
)

// SpectralFlatness computes spectral flatness (Wiener entropy): the ratio of
// the geometric to the arithmetic mean of a magnitude spectrum. Tonal frames
// score near 0, noise-like frames near 1.
type SpectralFlatness struct {
	minThreshold float64 // Minimum value to avoid log(0)
}

// NewSpectralFlatness creates a new spectral flatness calculator
func NewSpectralFlatness() *SpectralFlatness {
	return &SpectralFlatness{
		minThreshold: 1e-10,
	}
}

// Compute calculates spectral flatness for a single magnitude spectrum.
// Bins below the threshold are left out of the geometric mean; a silent
// spectrum yields 0.
func (sf *SpectralFlatness) Compute(magnitudeSpectrum []float64) float64 {
	if len(magnitudeSpectrum) == 0 {
		return 0.0
	}

	logSum := 0.0
	validCount := 0
	arithmeticMean := 0.0

	for _, magnitude := range magnitudeSpectrum {
		arithmeticMean += magnitude
		if magnitude > sf.minThreshold {
			logSum += math.Log(magnitude)
			validCount++
		}
	}
	arithmeticMean /= float64(len(magnitudeSpectrum))

	if validCount == 0 || arithmeticMean <= sf.minThreshold {
		return 0.0
	}

	geometricMean := math.Exp(logSum / float64(validCount))
	return math.Min(geometricMean/arithmeticMean, 1.0)
}

// ComputeFrames evaluates every frame of a [frame][bin] matrix.
func (sf *SpectralFlatness) ComputeFrames(frames [][]float64) []float64 {
	flatness := make([]float64, len(frames))
	for t, magnitudeSpectrum := range frames {
		flatness[t] = sf.Compute(magnitudeSpectrum)
	}
	return flatness
}

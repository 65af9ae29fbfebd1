package spectral

import (
	"math"
)

// MelScale provides mel frequency conversion utilities
type MelScale struct{}

// NewMelScale creates a new mel scale converter
func NewMelScale() *MelScale {
	return &MelScale{}
}

// HzToMel converts frequency in Hz to mel scale
func (ms *MelScale) HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func (ms *MelScale) MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// CreateMelFilterBank builds numFilters triangular filters with centres
// equally spaced in mel between lowFreq and highFreq, evaluated on the given
// bin frequencies. Each filter peaks at 1 on its centre frequency.
func (ms *MelScale) CreateMelFilterBank(numFilters int, frequencies []float64, lowFreq, highFreq float64) [][]float64 {
	if numFilters <= 0 || len(frequencies) == 0 || highFreq <= lowFreq {
		return nil
	}

	lowMel := ms.HzToMel(lowFreq)
	melStep := (ms.HzToMel(highFreq) - lowMel) / float64(numFilters+1)

	edges := make([]float64, numFilters+2)
	for i := range edges {
		edges[i] = ms.MelToHz(lowMel + float64(i)*melStep)
	}

	filterBank := make([][]float64, numFilters)
	for m := range filterBank {
		left, centre, right := edges[m], edges[m+1], edges[m+2]
		filter := make([]float64, len(frequencies))
		for k, f := range frequencies {
			switch {
			case f > left && f <= centre:
				filter[k] = (f - left) / (centre - left)
			case f > centre && f < right:
				filter[k] = (right - f) / (right - centre)
			}
		}
		filterBank[m] = filter
	}

	return filterBank
}

// ApplyFilterBank applies mel filter bank to power spectrum
func (ms *MelScale) ApplyFilterBank(powerSpectrum []float64, filterBank [][]float64) []float64 {
	melSpectrum := make([]float64, len(filterBank))

	for i, filter := range filterBank {
		sum := 0.0
		for j := 0; j < len(filter) && j < len(powerSpectrum); j++ {
			sum += powerSpectrum[j] * filter[j]
		}
		melSpectrum[i] = sum
	}

	return melSpectrum
}

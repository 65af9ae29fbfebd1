package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Floor values used when taking logarithms of magnitudes. A zero magnitude
// maps to -400 dB instead of -Inf so comparisons stay well defined.
const (
	MinAmplitude = 1e-20
	MinPower     = 1e-40
)

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Sum returns the sum of data.
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Max returns the largest element, or 0 for an empty slice.
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Max(data)
}

// ArgMax returns the index of the first maximum, or -1 for an empty slice.
func ArgMax(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	return floats.MaxIdx(data)
}

// ArgMinDistance returns the index of the element closest to target
// (first one on ties).
func ArgMinDistance(data []float64, target float64) int {
	best := -1
	bestDist := math.Inf(1)
	for i, v := range data {
		if d := math.Abs(v - target); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// AmplitudeToDB converts a linear amplitude ratio to decibels (20·log10),
// flooring the input at MinAmplitude.
func AmplitudeToDB(x float64) float64 {
	return 20 * math.Log10(math.Max(x, MinAmplitude))
}

// PowerToDB converts a power ratio to decibels (10·log10), flooring the
// input at MinPower.
func PowerToDB(x float64) float64 {
	return 10 * math.Log10(math.Max(x, MinPower))
}

// MovingAverageSame convolves data with a length-k box kernel of weight 1/k
// and returns the centred slice of the same length as data. Samples outside
// data count as zero.
func MovingAverageSame(data []float64, k int) []float64 {
	n := len(data)
	result := make([]float64, n)
	if n == 0 || k <= 0 {
		return result
	}

	// full convolution index i+offset is the centre of output i
	offset := (k - 1) / 2
	for i := range n {
		c := i + offset
		sum := 0.0
		for j := max(0, c-k+1); j <= min(n-1, c); j++ {
			sum += data[j]
		}
		result[i] = sum / float64(k)
	}
	return result
}

// NextFastLen returns the smallest 5-smooth integer (2^a·3^b·5^c) that is
// at least n.
func NextFastLen(n int) int {
	if n <= 6 {
		return max(n, 1)
	}
	for m := n; ; m++ {
		r := m
		for _, p := range []int{2, 3, 5} {
			for r%p == 0 {
				r /= p
			}
		}
		if r == 1 {
			return m
		}
	}
}

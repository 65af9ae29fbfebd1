package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

// ShannonEntropy normalises weights to a probability distribution and
// returns H(X) = -∑ p(x) * ln(p(x)), with 0·ln 0 taken as 0.
func ShannonEntropy(weights []float64) (float64, error) {
	if len(weights) == 0 {
		return 0, fmt.Errorf("%w: empty distribution", common.ErrInvalidParams)
	}

	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return 0, fmt.Errorf("%w: weight %d is %g", common.ErrInvalidParams, i, w)
		}
	}
	total := floats.Sum(weights)
	if total == 0 {
		return 0, fmt.Errorf("%w: weights sum to zero", common.ErrZeroEnergy)
	}

	p := make([]float64, len(weights))
	for i, w := range weights {
		p[i] = w / total
	}
	return stat.Entropy(p), nil
}

// NormalizedEntropy is ShannonEntropy divided by ln(len(weights)), so a
// uniform distribution scores 1. At least two weights are required.
func NormalizedEntropy(weights []float64) (float64, error) {
	if len(weights) <= 1 {
		return 0, fmt.Errorf("%w: need at least 2 values, got %d", common.ErrInvalidParams, len(weights))
	}
	h, err := ShannonEntropy(weights)
	if err != nil {
		return 0, err
	}
	return h / math.Log(float64(len(weights))), nil
}

package stats

import (
	"fmt"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

// Gini returns the Gini coefficient of values: half the mean absolute
// difference over all ordered pairs (including i == j) divided by the mean.
// It is 0 for a uniform distribution and (n-1)/n when one value holds
// everything.
func Gini(values []float64) (float64, error) {
	n := len(values)
	if n == 0 {
		return 0, fmt.Errorf("%w: empty input", common.ErrInvalidParams)
	}

	mean := common.Mean(values)
	if mean == 0 {
		return 0, fmt.Errorf("%w: mean is zero", common.ErrZeroMean)
	}

	// ∑_i ∑_j |x_i - x_j| over sorted values is 2·∑_i (2i - n + 1)·x_(i)
	sorted := sortedCopy(values)
	sum := 0.0
	for i, x := range sorted {
		sum += float64(2*i-n+1) * x
	}
	meanAbsDiff := 2 * sum / float64(n*n)

	return 0.5 * meanAbsDiff / mean, nil
}

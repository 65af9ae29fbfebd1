package stats

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

// Histogram is a fixed-width binning of a sample.
type Histogram struct {
	Counts []float64 `json:"counts"`
	Edges  []float64 `json:"edges"`
}

// NewHistogram bins data into numBins equal-width bins spanning [lo, hi].
// Bins are half-open except the last, which includes hi. Values outside
// the range are ignored. When lo == hi the range is widened by 0.5 on
// each side.
func NewHistogram(data []float64, numBins int, lo, hi float64) (*Histogram, error) {
	if numBins <= 0 {
		return nil, fmt.Errorf("%w: number of bins must be positive, got %d", common.ErrInvalidParams, numBins)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) || lo > hi {
		return nil, fmt.Errorf("%w: invalid histogram range [%g, %g]", common.ErrInvalidParams, lo, hi)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := make([]float64, numBins+1)
	step := (hi - lo) / float64(numBins)
	for i := range edges {
		edges[i] = lo + float64(i)*step
	}
	edges[numBins] = hi

	counts := make([]float64, numBins)
	norm := float64(numBins) / (hi - lo)
	for _, x := range data {
		if x < lo || x > hi || math.IsNaN(x) {
			continue
		}
		idx := int((x - lo) * norm)
		if idx == numBins {
			idx--
		}
		// the scaled index can land one bin off near an edge
		if idx > 0 && x < edges[idx] {
			idx--
		} else if idx < numBins-1 && x >= edges[idx+1] {
			idx++
		}
		counts[idx]++
	}

	return &Histogram{Counts: counts, Edges: edges}, nil
}

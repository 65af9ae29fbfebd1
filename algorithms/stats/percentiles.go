package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

// QuartileInfo contains quartile-specific information
type QuartileInfo struct {
	Q1    float64 `json:"q1"`  // First quartile (25th percentile)
	Q2    float64 `json:"q2"`  // Second quartile (50th percentile, median)
	Q3    float64 `json:"q3"`  // Third quartile (75th percentile)
	IQR   float64 `json:"iqr"` // Interquartile range (Q3 - Q1)
	Count int     `json:"count"`
}

// Percentiles computes order statistics of a sample
//
// References:
//   - Hyndman, R.J., Fan, Y. (1996). "Sample Quantiles in Statistical Packages"
//     The American Statistician, 50(4), 361-365
//
// Quantiles use linear interpolation between closest ranks (R-7, the numpy
// default).
type Percentiles struct{}

// NewPercentiles creates a new percentile analyzer
func NewPercentiles() *Percentiles {
	return &Percentiles{}
}

// Quartiles returns Q1, median, Q3 and the IQR of data.
func (p *Percentiles) Quartiles(data []float64) (QuartileInfo, error) {
	if len(data) == 0 {
		return QuartileInfo{}, fmt.Errorf("%w: empty data", common.ErrInvalidParams)
	}

	values := sortedCopy(data)
	q1 := p.quantile(values, 0.25)
	q3 := p.quantile(values, 0.75)

	return QuartileInfo{
		Q1:    q1,
		Q2:    p.quantile(values, 0.5),
		Q3:    q3,
		IQR:   q3 - q1,
		Count: len(values),
	}, nil
}

// CalculatePercentile computes a single percentile value (0-100)
func (p *Percentiles) CalculatePercentile(data []float64, percentile float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty data", common.ErrInvalidParams)
	}
	if percentile < 0 || percentile > 100 {
		return 0, fmt.Errorf("%w: percentile must be between 0 and 100", common.ErrInvalidParams)
	}
	return p.quantile(sortedCopy(data), percentile/100.0), nil
}

func (p *Percentiles) quantile(sortedData []float64, q float64) float64 {
	if len(sortedData) == 1 {
		return sortedData[0]
	}
	return p.linearInterpolation(sortedData, q)
}

// linearInterpolation implements the R-7 method
// Formula: h = (n-1) * p + 1, where p is the quantile
func (p *Percentiles) linearInterpolation(data []float64, q float64) float64 {
	n := len(data)
	h := float64(n-1)*q + 1.0

	if h <= 1.0 {
		return data[0]
	}
	if h >= float64(n) {
		return data[n-1]
	}

	// Linear interpolation between floor and ceiling
	lower := int(math.Floor(h)) - 1 // Convert to 0-based index
	upper := int(math.Ceil(h)) - 1

	if lower == upper {
		return data[lower]
	}

	fraction := h - math.Floor(h)
	return data[lower] + fraction*(data[upper]-data[lower])
}

func sortedCopy(data []float64) []float64 {
	values := make([]float64, len(data))
	copy(values, data)
	sort.Float64s(values)
	return values
}

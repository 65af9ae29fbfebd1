package speech

import (
	"fmt"
	"math"
	"sort"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/RyanBlaney/soundscape/algorithms/stats"
	"gonum.org/v1/gonum/mat"
)

// FormantAnalyzer locates spectral resonances from the roots of an LPC
// polynomial fitted to the whole signal.
type FormantAnalyzer struct {
	sampleRate  int
	lpcAnalyzer *LPCAnalyzer
	percentiles *stats.Percentiles
}

// FormantResult contains formant analysis results
type FormantResult struct {
	Frequencies []float64          `json:"frequencies"` // Root frequencies in Hz, ascending
	Quartiles   stats.QuartileInfo `json:"quartiles"`
	LPCOrder    int                `json:"lpc_order"`
}

// DefaultLPCOrder is one coefficient per kHz of sample rate.
func DefaultLPCOrder(sampleRate int) int {
	return sampleRate / 1000
}

// NewFormantAnalyzer creates a new formant analyzer. order <= 0 selects
// DefaultLPCOrder.
func NewFormantAnalyzer(sampleRate, order int) *FormantAnalyzer {
	if order <= 0 {
		order = DefaultLPCOrder(sampleRate)
	}

	return &FormantAnalyzer{
		sampleRate:  sampleRate,
		lpcAnalyzer: NewLPCAnalyzer(order, Burg),
		percentiles: stats.NewPercentiles(),
	}
}

// AnalyzeFormants fits the LPC model, keeps the roots in the upper half
// plane and reports their frequencies with quartile statistics.
func (f *FormantAnalyzer) AnalyzeFormants(signal []float64) (*FormantResult, error) {
	if f.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive", common.ErrInvalidParams)
	}

	lpcResult, err := f.lpcAnalyzer.Analyze(signal)
	if err != nil {
		return nil, fmt.Errorf("LPC analysis failed: %w", err)
	}

	roots, err := PolynomialRoots(lpcResult.Coefficients)
	if err != nil {
		return nil, fmt.Errorf("root finding failed: %w", err)
	}

	frequencies := RootFrequencies(roots, f.sampleRate)
	if len(frequencies) == 0 {
		return nil, fmt.Errorf("%w: LPC polynomial of order %d has no usable roots",
			common.ErrInvalidParams, lpcResult.Order)
	}

	quartiles, err := f.percentiles.Quartiles(frequencies)
	if err != nil {
		return nil, err
	}

	return &FormantResult{
		Frequencies: frequencies,
		Quartiles:   quartiles,
		LPCOrder:    lpcResult.Order,
	}, nil
}

// PolynomialRoots returns the roots of c[0]·x^n + c[1]·x^(n-1) + ... + c[n]
// as the eigenvalues of its companion matrix. Leading zeros are ignored and
// trailing zeros yield roots at the origin.
func PolynomialRoots(c []float64) ([]complex128, error) {
	start := 0
	for start < len(c) && c[start] == 0 {
		start++
	}
	end := len(c)
	for end > start && c[end-1] == 0 {
		end--
	}
	if start == end {
		return nil, fmt.Errorf("%w: zero polynomial", common.ErrInvalidParams)
	}

	zeros := len(c) - end
	coeffs := c[start:end]
	degree := len(coeffs) - 1

	roots := make([]complex128, 0, degree+zeros)
	if degree > 0 {
		companion := mat.NewDense(degree, degree, nil)
		for j := range degree {
			companion.Set(0, j, -coeffs[j+1]/coeffs[0])
		}
		for i := 1; i < degree; i++ {
			companion.Set(i, i-1, 1)
		}

		var eig mat.Eigen
		if ok := eig.Factorize(companion, mat.EigenNone); !ok {
			return nil, fmt.Errorf("eigen decomposition of %dx%d companion matrix did not converge", degree, degree)
		}
		roots = append(roots, eig.Values(nil)...)
	}
	for range zeros {
		roots = append(roots, 0)
	}
	return roots, nil
}

// RootFrequencies converts roots with a non-negative imaginary part to
// frequencies angle·fs/2π, sorted ascending.
func RootFrequencies(roots []complex128, sampleRate int) []float64 {
	frequencies := make([]float64, 0, len(roots))
	for _, r := range roots {
		if imag(r) < 0 {
			continue
		}
		angle := math.Atan2(imag(r), real(r))
		frequencies = append(frequencies, angle*float64(sampleRate)/(2*math.Pi))
	}
	sort.Float64s(frequencies)
	return frequencies
}

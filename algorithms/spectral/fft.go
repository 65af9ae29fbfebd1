package spectral

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// RealPlan is a reusable real-input FFT of a fixed size backed by
// gonum's dsp/fourier. A plan is not safe for concurrent use; create one
// per goroutine.
type RealPlan struct {
	n      int
	plan   *fourier.FFT
	coeffs []complex128
}

// NewRealPlan prepares a real FFT of length n.
func NewRealPlan(n int) *RealPlan {
	return &RealPlan{
		n:      n,
		plan:   fourier.NewFFT(n),
		coeffs: make([]complex128, n/2+1),
	}
}

// Len returns the transform length.
func (p *RealPlan) Len() int {
	return p.n
}

// Magnitudes writes |X[k]| for k < len(dst) into dst. frame must have the
// plan length and dst at most n/2+1 entries.
func (p *RealPlan) Magnitudes(dst, frame []float64) {
	p.coeffs = p.plan.Coefficients(p.coeffs, frame)
	for k := range dst {
		dst[k] = cmplx.Abs(p.coeffs[k])
	}
}

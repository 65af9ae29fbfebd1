package speech

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"gonum.org/v1/gonum/floats"
)

// LPCMethod selects how prediction coefficients are estimated.
type LPCMethod int

const (
	// Burg's maximum entropy method, fitted on the whole signal
	Burg LPCMethod = iota

	// Autocorrelation method solved with the Levinson-Durbin recursion
	Autocorrelation
)

// LPCAnalyzer performs Linear Predictive Coding analysis.
// LPC models the signal as the output of an all-pole filter; the roots of
// the prediction polynomial locate its resonances.
type LPCAnalyzer struct {
	order  int
	method LPCMethod
}

// LPCResult contains LPC analysis results
type LPCResult struct {
	Coefficients    []float64 `json:"coefficients"`     // Prediction polynomial (1, a1, a2, ..., ap)
	ReflectionCoeff []float64 `json:"reflection_coeff"` // Reflection coefficients (k1, k2, ..., kp)
	Order           int       `json:"order"`            // LPC order used
}

// NewLPCAnalyzer creates a new LPC analyzer
func NewLPCAnalyzer(order int, method LPCMethod) *LPCAnalyzer {
	return &LPCAnalyzer{
		order:  order,
		method: method,
	}
}

// Order returns the prediction order
func (lpc *LPCAnalyzer) Order() int {
	return lpc.order
}

// Analyze performs LPC analysis on the input signal
func (lpc *LPCAnalyzer) Analyze(signal []float64) (*LPCResult, error) {
	if lpc.order < 1 {
		return nil, fmt.Errorf("%w: LPC order must be at least 1, got %d", common.ErrInvalidParams, lpc.order)
	}
	if len(signal) < lpc.order+2 {
		return nil, fmt.Errorf("%w: %d samples for LPC order %d",
			common.ErrSignalTooShort, len(signal), lpc.order)
	}

	switch lpc.method {
	case Autocorrelation:
		r := make([]float64, lpc.order+1)
		for lag := range r {
			r[lag] = floats.Dot(signal[:len(signal)-lag], signal[lag:])
		}
		return lpc.levinsonDurbin(r)
	default:
		return lpc.burg(signal)
	}
}

// burg estimates the coefficients with Burg's method. Forward and backward
// prediction errors shrink by one sample per order.
func (lpc *LPCAnalyzer) burg(signal []float64) (*LPCResult, error) {
	p := lpc.order

	a := make([]float64, p+1)
	a[0] = 1
	k := make([]float64, p)

	fwd := make([]float64, len(signal)-1)
	bwd := make([]float64, len(signal)-1)
	copy(fwd, signal[1:])
	copy(bwd, signal[:len(signal)-1])

	den := floats.Dot(fwd, fwd) + floats.Dot(bwd, bwd)

	prev := make([]float64, p+1)
	for i := range p {
		if den <= 0 || math.IsNaN(den) {
			return nil, fmt.Errorf("%w: prediction error energy vanished at order %d",
				common.ErrZeroEnergy, i+1)
		}

		reflect := -2 * floats.Dot(bwd, fwd) / den
		k[i] = reflect

		copy(prev, a)
		for j := 1; j <= i+1; j++ {
			a[j] = prev[j] + reflect*prev[i-j+1]
		}

		for n := range fwd {
			f := fwd[n]
			fwd[n] = f + reflect*bwd[n]
			bwd[n] = bwd[n] + reflect*f
		}

		last := bwd[len(bwd)-1]
		den = (1-reflect*reflect)*den - last*last - fwd[0]*fwd[0]

		fwd = fwd[1:]
		bwd = bwd[:len(bwd)-1]
	}

	return &LPCResult{
		Coefficients:    a,
		ReflectionCoeff: k,
		Order:           p,
	}, nil
}

// levinsonDurbin performs the Levinson-Durbin recursion algorithm.
func (lpc *LPCAnalyzer) levinsonDurbin(R []float64) (*LPCResult, error) {
	p := lpc.order

	if R[0] == 0 {
		return nil, fmt.Errorf("%w: zero energy signal", common.ErrZeroEnergy)
	}

	a := make([]float64, p+1) // predictor (positive sign convention)
	k := make([]float64, p)   // Reflection coefficients
	E := R[0]                 // Prediction error energy

	prev := make([]float64, p+1)
	for i := 1; i <= p; i++ {
		// Calculate reflection coefficient k[i]
		numerator := R[i]
		for j := 1; j < i; j++ {
			numerator -= a[j] * R[i-j]
		}

		if E <= 0 {
			break
		}
		k[i-1] = numerator / E

		// Update LPC coefficients
		copy(prev, a)
		a[i] = k[i-1]
		for j := 1; j < i; j++ {
			a[j] = prev[j] - k[i-1]*prev[i-j]
		}

		// Update prediction error energy
		E *= (1 - k[i-1]*k[i-1])
	}

	// A(z) = 1 - Σ a_i z^-i
	coeffs := make([]float64, p+1)
	coeffs[0] = 1
	for i := 1; i <= p; i++ {
		coeffs[i] = -a[i]
	}

	return &LPCResult{
		Coefficients:    coeffs,
		ReflectionCoeff: k,
		Order:           p,
	}, nil
}

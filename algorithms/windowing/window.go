package windowing

import (
	"fmt"
	"math"
	"strings"
)

// Type names a window function. Names follow the scipy get_window
// vocabulary so configuration files written for it keep working.
type Type string

const (
	Hann           Type = "hann"
	Hamming        Type = "hamming"
	Blackman       Type = "blackman"
	BlackmanHarris Type = "blackmanharris"
	Bartlett       Type = "bartlett"
	Rectangular    Type = "boxcar"
)

var aliases = map[string]Type{
	"hann":            Hann,
	"hanning":         Hann,
	"hamming":         Hamming,
	"blackman":        Blackman,
	"blackmanharris":  BlackmanHarris,
	"blackman_harris": BlackmanHarris,
	"bartlett":        Bartlett,
	"triangular":      Bartlett,
	"boxcar":          Rectangular,
	"rectangular":     Rectangular,
	"rect":            Rectangular,
}

// ParseType resolves a window name (case-insensitive, aliases allowed).
func ParseType(name string) (Type, error) {
	t, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown window type %q", name)
	}
	return t, nil
}

// Window holds precomputed coefficients of a window function
type Window struct {
	kind         Type
	size         int
	symmetric    bool
	coefficients []float64
}

// New creates a symmetric window (no periodic correction), which is what
// the spectrogram engine uses.
func New(name string, size int) (*Window, error) {
	return NewWithSymmetry(name, size, true)
}

// NewWithSymmetry creates a window; symmetric=false yields the periodic
// (DFT-even) variant.
func NewWithSymmetry(name string, size int, symmetric bool) (*Window, error) {
	kind, err := ParseType(name)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	w := &Window{
		kind:      kind,
		size:      size,
		symmetric: symmetric,
	}
	w.generate()
	return w, nil
}

func (w *Window) generate() {
	w.coefficients = make([]float64, w.size)

	if w.size == 1 {
		w.coefficients[0] = 1.0
		return
	}

	denominator := float64(w.size)
	if w.symmetric {
		denominator = float64(w.size - 1)
	}

	for i := range w.size {
		x := float64(i) / denominator
		switch w.kind {
		case Hann:
			w.coefficients[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
		case Hamming:
			w.coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*x)
		case Blackman:
			w.coefficients[i] = cosineSum(x, 0.42, 0.5, 0.08)
		case BlackmanHarris:
			w.coefficients[i] = cosineSum(x, 0.35875, 0.48829, 0.14128, 0.01168)
		case Bartlett:
			w.coefficients[i] = 1.0 - math.Abs(2.0*x-1.0)
		case Rectangular:
			w.coefficients[i] = 1.0
		}
	}
}

// cosineSum evaluates a0 - a1*cos(2πx) + a2*cos(4πx) - a3*cos(6πx) ...
func cosineSum(x float64, a ...float64) float64 {
	sum := 0.0
	sign := 1.0
	for k, ak := range a {
		sum += sign * ak * math.Cos(2*math.Pi*float64(k)*x)
		sign = -sign
	}
	return sum
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float64) ([]float64, error) {
	windowed := make([]float64, len(signal))
	copy(windowed, signal)
	if err := w.ApplyInPlace(windowed); err != nil {
		return nil, err
	}
	return windowed, nil
}

// ApplyInPlace applies the window to a signal in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	for i := range w.size {
		signal[i] *= w.coefficients[i]
	}

	return nil
}

// Coefficients returns a copy of the window coefficients
func (w *Window) Coefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// Size returns the window size
func (w *Window) Size() int {
	return w.size
}

// Type returns the canonical window type
func (w *Window) Type() Type {
	return w.kind
}

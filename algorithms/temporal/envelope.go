package temporal

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/mjibson/go-dsp/fft"
)

// Envelope provides amplitude envelope extraction
type Envelope struct {
	// No state needed - stateless calculation
}

// NewEnvelope creates a new envelope extractor
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// Hilbert returns the magnitude of the analytic signal of x. The transform
// is evaluated at the next 2·3·5-smooth length to keep the FFT cheap, and the
// result is truncated back to len(x). All values are non-negative.
func (e *Envelope) Hilbert(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return []float64{}
	}

	size := common.NextFastLen(n)
	padded := make([]complex128, size)
	for i, v := range x {
		padded[i] = complex(v, 0)
	}

	spectrum := fft.FFT(padded)

	// analytic signal multiplier: keep DC (and Nyquist for even sizes),
	// double positive frequencies, zero negative ones
	half := (size + 1) / 2
	for k := 1; k < half; k++ {
		spectrum[k] *= 2
	}
	if size%2 == 0 {
		half = size/2 + 1
	}
	for k := half; k < size; k++ {
		spectrum[k] = 0
	}

	analytic := fft.IFFT(spectrum)

	envelope := make([]float64, n)
	for i := range envelope {
		envelope[i] = cmplx.Abs(analytic[i])
	}
	return envelope
}

// ComputePeak computes peak envelope (maximum absolute value per frame).
// Only complete frames are produced.
func (e *Envelope) ComputePeak(signal []float64, frameSize, hopSize int) ([]float64, error) {
	if frameSize <= 0 || hopSize <= 0 {
		return nil, fmt.Errorf("%w: frame size %d and hop %d must be positive",
			common.ErrInvalidParams, frameSize, hopSize)
	}
	if len(signal) < frameSize {
		return nil, fmt.Errorf("%w: %d samples for frame size %d",
			common.ErrSignalTooShort, len(signal), frameSize)
	}

	numFrames := (len(signal)-frameSize)/hopSize + 1
	envelope := make([]float64, numFrames)

	for i := range numFrames {
		startIdx := i * hopSize

		// Find peak in this frame
		peak := 0.0
		for _, v := range signal[startIdx : startIdx+frameSize] {
			peak = math.Max(peak, math.Abs(v))
		}
		envelope[i] = peak
	}

	return envelope, nil
}

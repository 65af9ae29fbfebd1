package spectral

import (
	"fmt"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

// ZeroCrossingRate counts sign changes of the waveform per sample.
// High values point at noise or broadband insect choruses, low values at
// tonal or low-frequency sources.
type ZeroCrossingRate struct {
	frameSize int
	hopSize   int
}

// NewZeroCrossingRate creates a calculator over frames of frameSize samples
// taken every hopSize samples.
func NewZeroCrossingRate(frameSize, hopSize int) *ZeroCrossingRate {
	return &ZeroCrossingRate{
		frameSize: frameSize,
		hopSize:   hopSize,
	}
}

// Compute returns the number of zero crossings in frame divided by its
// length. Zero counts as positive.
func (zcr *ZeroCrossingRate) Compute(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0) != (frame[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(len(frame))
}

// ComputeFrames evaluates every complete frame of signal.
func (zcr *ZeroCrossingRate) ComputeFrames(signal []float64) ([]float64, error) {
	if zcr.frameSize <= 0 || zcr.hopSize <= 0 {
		return nil, fmt.Errorf("%w: frame size %d and hop %d must be positive",
			common.ErrInvalidParams, zcr.frameSize, zcr.hopSize)
	}

	numFrames := FrameCount(len(signal), zcr.frameSize, zcr.hopSize)
	if numFrames < 1 {
		return nil, fmt.Errorf("%w: %d samples for frame size %d",
			common.ErrSignalTooShort, len(signal), zcr.frameSize)
	}

	zcrValues := make([]float64, numFrames)
	for i := range numFrames {
		start := i * zcr.hopSize
		zcrValues[i] = zcr.Compute(signal[start : start+zcr.frameSize])
	}
	return zcrValues, nil
}

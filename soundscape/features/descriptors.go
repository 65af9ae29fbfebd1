package features

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/soundscape/algorithms/common"
	"github.com/RyanBlaney/soundscape/algorithms/spectral"
	"github.com/RyanBlaney/soundscape/algorithms/speech"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

type descriptor func(ctx *frameContext, p config.FeatureParams) ([][]float64, error)

var descriptors = map[string]descriptor{
	"SpectralFlatness":    spectralFlatness,
	"SpectralFlux":        spectralFlux,
	"SpectralRolloff":     spectralRolloff,
	"SpectralSlope":       spectralSlope,
	"SpectralCrestFactor": spectralCrest,
	"ZCR":                 zeroCrossingRate,
	"MFCC":                mfcc,
	"LPC":                 lpc,
}

func spectralFlatness(ctx *frameContext, p config.FeatureParams) ([][]float64, error) {
	frames, _, err := ctx.spectrogram(p)
	if err != nil {
		return nil, err
	}
	return column(spectral.NewSpectralFlatness().ComputeFrames(frames)), nil
}

func spectralFlux(ctx *frameContext, p config.FeatureParams) ([][]float64, error) {
	frames, _, err := ctx.spectrogram(p)
	if err != nil {
		return nil, err
	}
	return column(spectral.NewSpectralFlux().ComputeFrames(frames)), nil
}

func spectralRolloff(ctx *frameContext, p config.FeatureParams) ([][]float64, error) {
	frames, freqs, err := ctx.spectrogram(p)
	if err != nil {
		return nil, err
	}
	return column(spectral.NewSpectralRolloff(p.RolloffPercent).ComputeFrames(frames, freqs)), nil
}

func spectralSlope(ctx *frameContext, p config.FeatureParams) ([][]float64, error) {
	frames, freqs, err := ctx.spectrogram(p)
	if err != nil {
		return nil, err
	}
	return column(spectral.NewSpectralSlope().ComputeFrames(frames, freqs)), nil
}

func spectralCrest(ctx *frameContext, p config.FeatureParams) ([][]float64, error) {
	frames, _, err := ctx.spectrogram(p)
	if err != nil {
		return nil, err
	}
	return column(spectral.NewSpectralCrest().ComputeFrames(frames)), nil
}

func zeroCrossingRate(ctx *frameContext, p config.FeatureParams) ([][]float64, error) {
	values, err := spectral.NewZeroCrossingRate(p.BlockSize, p.StepSize).ComputeFrames(ctx.signal.Samples)
	if err != nil {
		return nil, err
	}
	return column(values), nil
}

func mfcc(ctx *frameContext, p config.FeatureParams) ([][]float64, error) {
	frames, freqs, err := ctx.spectrogram(p)
	if err != nil {
		return nil, err
	}

	m, err := spectral.NewMFCC(spectral.MFCCParams{
		NumCoefficients: p.CepsNbCoeffs,
		NumMelFilters:   p.MelNbFilters,
		LowFreq:         p.MelMinFreq,
		HighFreq:        p.MelMaxFreq,
		IgnoreFirst:     p.IgnoreFirstCoeff(),
	}, freqs)
	if err != nil {
		return nil, err
	}
	return m.ComputeFrames(frames), nil
}

// lpc fits an autocorrelation LPC model to every block and returns a1..ap of
// A(z). Silent blocks yield zero coefficients.
func lpc(ctx *frameContext, p config.FeatureParams) ([][]float64, error) {
	samples := ctx.signal.Samples
	numFrames := spectral.FrameCount(len(samples), p.BlockSize, p.StepSize)
	if numFrames < 1 {
		return nil, fmt.Errorf("%w: %d samples for block size %d",
			common.ErrSignalTooShort, len(samples), p.BlockSize)
	}

	analyzer := speech.NewLPCAnalyzer(p.LPCNbCoeffs, speech.Autocorrelation)
	out := make([][]float64, numFrames)
	for t := range numFrames {
		start := t * p.StepSize
		res, err := analyzer.Analyze(samples[start : start+p.BlockSize])
		switch {
		case errors.Is(err, common.ErrZeroEnergy):
			out[t] = make([]float64, p.LPCNbCoeffs)
		case err != nil:
			return nil, err
		default:
			out[t] = res.Coefficients[1:]
		}
	}
	return out, nil
}

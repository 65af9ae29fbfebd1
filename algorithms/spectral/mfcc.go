package spectral

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

// MFCC computes Mel-Frequency Cepstral Coefficients from magnitude spectra
// with a fixed frequency axis.
type MFCC struct {
	numCoefficients int
	ignoreFirst     bool

	melScale   *MelScale
	filterBank [][]float64
	dctMatrix  [][]float64
}

// MFCCParams contains parameters for MFCC computation
type MFCCParams struct {
	NumCoefficients int     `json:"num_coefficients"` // Coefficients returned per frame
	NumMelFilters   int     `json:"num_mel_filters"`
	LowFreq         float64 `json:"low_freq"`
	HighFreq        float64 `json:"high_freq"`
	IgnoreFirst     bool    `json:"ignore_first"` // Drop C0 (log energy) and return the next NumCoefficients
}

// NewMFCC prepares the mel filter bank and DCT matrix for spectra whose bins
// sit at frequencies.
func NewMFCC(params MFCCParams, frequencies []float64) (*MFCC, error) {
	if params.NumCoefficients <= 0 || params.NumMelFilters <= 0 {
		return nil, fmt.Errorf("%w: %d coefficients from %d mel filters",
			common.ErrInvalidParams, params.NumCoefficients, params.NumMelFilters)
	}

	mfcc := &MFCC{
		numCoefficients: params.NumCoefficients,
		ignoreFirst:     params.IgnoreFirst,
		melScale:        NewMelScale(),
	}

	mfcc.filterBank = mfcc.melScale.CreateMelFilterBank(params.NumMelFilters, frequencies, params.LowFreq, params.HighFreq)
	if len(mfcc.filterBank) == 0 {
		return nil, fmt.Errorf("%w: empty mel filter bank for [%g, %g] Hz",
			common.ErrInvalidParams, params.LowFreq, params.HighFreq)
	}

	total := params.NumCoefficients
	if params.IgnoreFirst {
		total++
	}
	mfcc.createDCTMatrix(total, params.NumMelFilters)

	return mfcc, nil
}

// Compute returns the cepstral coefficients of one magnitude spectrum.
func (mfcc *MFCC) Compute(magnitudeSpectrum []float64) []float64 {
	powerSpectrum := make([]float64, len(magnitudeSpectrum))
	for i, mag := range magnitudeSpectrum {
		powerSpectrum[i] = mag * mag
	}

	melSpectrum := mfcc.melScale.ApplyFilterBank(powerSpectrum, mfcc.filterBank)

	// floor to avoid log(0)
	for i, mel := range melSpectrum {
		melSpectrum[i] = math.Log(math.Max(mel, 1e-10))
	}

	coeffs := mfcc.applyDCT(melSpectrum)
	if mfcc.ignoreFirst {
		coeffs = coeffs[1:]
	}
	return coeffs
}

// ComputeFrames evaluates every frame of a [frame][bin] matrix.
func (mfcc *MFCC) ComputeFrames(frames [][]float64) [][]float64 {
	out := make([][]float64, len(frames))
	for t, spectrum := range frames {
		out[t] = mfcc.Compute(spectrum)
	}
	return out
}

// createDCTMatrix builds an orthonormal DCT-II matrix.
func (mfcc *MFCC) createDCTMatrix(numCoefficients, numFilters int) {
	mfcc.dctMatrix = make([][]float64, numCoefficients)

	for k := range numCoefficients {
		mfcc.dctMatrix[k] = make([]float64, numFilters)

		scale := math.Sqrt(2.0 / float64(numFilters))
		if k == 0 {
			scale = math.Sqrt(1.0 / float64(numFilters))
		}
		for n := range numFilters {
			mfcc.dctMatrix[k][n] = scale * math.Cos(math.Pi*float64(k)*(float64(n)+0.5)/float64(numFilters))
		}
	}
}

func (mfcc *MFCC) applyDCT(logMelSpectrum []float64) []float64 {
	coeffs := make([]float64, len(mfcc.dctMatrix))

	for k, row := range mfcc.dctMatrix {
		sum := 0.0
		for n := 0; n < len(logMelSpectrum) && n < len(row); n++ {
			sum += logMelSpectrum[n] * row[n]
		}
		coeffs[k] = sum
	}

	return coeffs
}

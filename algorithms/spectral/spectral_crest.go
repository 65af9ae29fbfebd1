package spectral

// SpectralCrest computes the spectral crest factor: the largest magnitude
// divided by the mean magnitude. Flat spectra score 1, peaky spectra more.
type SpectralCrest struct{}

// NewSpectralCrest creates a new spectral crest calculator
func NewSpectralCrest() *SpectralCrest {
	return &SpectralCrest{}
}

// Compute calculates the crest factor of one spectrum; a silent spectrum
// yields 0.
func (sc *SpectralCrest) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0
	}

	maxVal := 0.0
	sum := 0.0
	for _, mag := range spectrum {
		maxVal = max(maxVal, mag)
		sum += mag
	}

	if sum == 0 {
		return 0
	}
	return maxVal / (sum / float64(len(spectrum)))
}

// ComputeFrames evaluates every frame of a [frame][bin] matrix.
func (sc *SpectralCrest) ComputeFrames(frames [][]float64) []float64 {
	crests := make([]float64, len(frames))
	for t, spectrum := range frames {
		crests[t] = sc.Compute(spectrum)
	}
	return crests
}

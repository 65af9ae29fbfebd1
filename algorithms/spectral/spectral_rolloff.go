package spectral

// SpectralRolloff finds the frequency below which a given fraction of the
// spectral energy lies.
type SpectralRolloff struct {
	percent float64
}

// NewSpectralRolloff creates a rolloff calculator; percent is a fraction in
// (0, 1], typically 0.85 or 0.99.
func NewSpectralRolloff(percent float64) *SpectralRolloff {
	return &SpectralRolloff{
		percent: percent,
	}
}

// Compute returns the frequency of the first bin at which the cumulative
// energy reaches percent of the total. A silent spectrum yields 0.
func (sr *SpectralRolloff) Compute(spectrum, frequencies []float64) float64 {
	n := min(len(spectrum), len(frequencies))
	if n == 0 {
		return 0.0
	}

	totalEnergy := 0.0
	for _, mag := range spectrum[:n] {
		totalEnergy += mag * mag
	}
	if totalEnergy == 0 {
		return 0
	}

	targetEnergy := sr.percent * totalEnergy
	cumulativeEnergy := 0.0
	for i := range n {
		cumulativeEnergy += spectrum[i] * spectrum[i]
		if cumulativeEnergy >= targetEnergy {
			return frequencies[i]
		}
	}
	return frequencies[n-1]
}

// ComputeFrames evaluates every frame of a [frame][bin] matrix.
func (sr *SpectralRolloff) ComputeFrames(frames [][]float64, frequencies []float64) []float64 {
	rolloffs := make([]float64, len(frames))
	for t, spectrum := range frames {
		rolloffs[t] = sr.Compute(spectrum, frequencies)
	}
	return rolloffs
}

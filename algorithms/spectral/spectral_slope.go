package spectral

// SpectralSlope is the slope of a least-squares line fitted to the
// magnitude spectrum against frequency, divided by the summed magnitude so
// that it does not depend on gain.
type SpectralSlope struct{}

// NewSpectralSlope creates a new spectral slope calculator
func NewSpectralSlope() *SpectralSlope {
	return &SpectralSlope{}
}

// Compute calculates the slope of one spectrum. Spectra with fewer than two
// bins or no energy yield 0.
func (ss *SpectralSlope) Compute(spectrum, frequencies []float64) float64 {
	n := min(len(spectrum), len(frequencies))
	if n < 2 {
		return 0
	}

	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumXX := 0.0
	for i := range n {
		x := frequencies[i]
		y := spectrum[i]
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denominator := float64(n)*sumXX - sumX*sumX
	if denominator == 0 || sumY == 0 {
		return 0
	}

	return (float64(n)*sumXY - sumX*sumY) / (denominator * sumY)
}

// ComputeFrames evaluates every frame of a [frame][bin] matrix.
func (ss *SpectralSlope) ComputeFrames(frames [][]float64, frequencies []float64) []float64 {
	slopes := make([]float64, len(frames))
	for t, spectrum := range frames {
		slopes[t] = ss.Compute(spectrum, frequencies)
	}
	return slopes
}

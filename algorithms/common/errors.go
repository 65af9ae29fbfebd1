package common

import "errors"

// Input and numeric failure classes shared by the spectral, temporal and
// index packages. Callers match them with errors.Is.
var (
	// ErrSignalTooShort means the signal cannot fill the requested window,
	// block or model order.
	ErrSignalTooShort = errors.New("signal too short")

	// ErrInvalidParams means a parameter is outside its valid domain.
	ErrInvalidParams = errors.New("invalid parameters")

	// ErrZeroEnergy means a quantity that must be normalised sums to zero
	// (silent input, all-zero band).
	ErrZeroEnergy = errors.New("zero energy")

	// ErrEmptyBand means a frequency band contains no spectrogram cells.
	ErrEmptyBand = errors.New("empty frequency band")

	// ErrZeroMean means a ratio's denominator mean is zero.
	ErrZeroMean = errors.New("zero mean")
)

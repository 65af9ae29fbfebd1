package indices

import (
	"fmt"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

// Input preconditions an index can violate. Index failures wrap one of these
// inside an *IndexError.
var (
	ErrSignalTooShort = common.ErrSignalTooShort
	ErrInvalidParams  = common.ErrInvalidParams
	ErrZeroEnergy     = common.ErrZeroEnergy
	ErrEmptyBand      = common.ErrEmptyBand
	ErrZeroMean       = common.ErrZeroMean
)

// IndexError identifies the index and recording that failed.
type IndexError struct {
	Index     string
	Recording string
	Err       error
}

func (e *IndexError) Error() string {
	if e.Recording == "" {
		return fmt.Sprintf("%s: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Index, e.Recording, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

func indexError(index string, sig Signal, err error) error {
	return &IndexError{
		Index:     index,
		Recording: sig.ID,
		Err:       err,
	}
}

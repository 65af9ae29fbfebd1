// Package results persists soundscape records: one CSV per recording next
// to the audio, and optionally a Badger store keyed by run.
package results

import (
	"context"
	"errors"
	"time"

	"github.com/RyanBlaney/soundscape/soundscape"
)

var ErrNotFound = errors.New("results: record not found")

// Entry is one stored record.
type Entry struct {
	RunID     string            `msgpack:"run_id"`
	Recording string            `msgpack:"recording"`
	Source    string            `msgpack:"source,omitempty"` // audio file path
	Record    soundscape.Record `msgpack:"record"`
	Failures  []string          `msgpack:"failures,omitempty"`
	CreatedAt time.Time         `msgpack:"created_at"`
}

// Sink receives finished records.
type Sink interface {
	Write(ctx context.Context, e Entry) error
	Close() error
}

// Multi fans each entry out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Write(ctx context.Context, e Entry) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

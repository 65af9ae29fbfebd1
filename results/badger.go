package results

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/RyanBlaney/soundscape/logging"
)

const keySep = "/"

// BadgerOptions configures a BadgerStore.
type BadgerOptions struct {
	// Dir holds the database files. Required unless InMemory is set.
	Dir string

	// InMemory keeps everything in memory.
	InMemory bool
}

// BadgerStore keeps msgpack-encoded entries under run/<run_id>/<recording>.
type BadgerStore struct {
	db     *badger.DB
	logger logging.Logger
}

func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("results: BadgerOptions.Dir is required for on-disk mode")
	}

	logger := logging.WithFields(logging.Fields{
		"component": "badger_store",
	})

	dbOpts := badger.DefaultOptions(opts.Dir).WithLogger(badgerLogger{logger})
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("results: failed to open badger: %w", err)
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

func runPrefix(runID string) []byte {
	return []byte("run" + keySep + runID + keySep)
}

func entryKey(runID, recording string) []byte {
	return append(runPrefix(runID), recording...)
}

func (s *BadgerStore) Write(_ context.Context, e Entry) error {
	if e.RunID == "" || e.Recording == "" {
		return fmt.Errorf("results: entry needs a run ID and a recording, got %q/%q", e.RunID, e.Recording)
	}

	data, err := msgpack.Marshal(e)
	if err != nil {
		return fmt.Errorf("results: failed to encode %s: %w", e.Recording, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(e.RunID, e.Recording), data)
	})
}

// Get returns the entry stored for recording in run runID.
func (s *BadgerStore) Get(_ context.Context, runID, recording string) (*Entry, error) {
	var e Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(runID, recording))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &e)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns every entry of a run in recording order.
func (s *BadgerStore) List(_ context.Context, runID string) ([]Entry, error) {
	prefix := runPrefix(runID)
	var entries []Entry

	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var e Entry
			err := it.Item().Value(func(val []byte) error {
				return msgpack.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("results: corrupt entry %s: %w", it.Item().Key(), err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger output through the module logger, dropping
// its info and debug chatter.
type badgerLogger struct {
	logger logging.Logger
}

func (l badgerLogger) Errorf(f string, v ...any) {
	l.logger.Error(fmt.Errorf(f, v...), "Badger error")
}

func (l badgerLogger) Warningf(f string, v ...any) {
	l.logger.Warn(fmt.Sprintf(f, v...))
}

func (badgerLogger) Infof(string, ...any)  {}
func (badgerLogger) Debugf(string, ...any) {}

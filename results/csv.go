package results

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/RyanBlaney/soundscape/logging"
)

// CSVPath is the output file for an audio file: same directory and stem,
// .csv extension.
func CSVPath(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".csv"
}

// HasCSV reports whether audioPath already has an output file.
func HasCSV(audioPath string) bool {
	info, err := os.Stat(CSVPath(audioPath))
	return err == nil && !info.IsDir()
}

// CSVWriter writes one header row and one value row per recording, columns
// in sorted key order.
type CSVWriter struct {
	logger logging.Logger
}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{
		logger: logging.WithFields(logging.Fields{
			"component": "csv_writer",
		}),
	}
}

// Write needs e.Source to place the file. The file is written to a temporary
// name and renamed so a crash never leaves a partial CSV that resume would
// skip.
func (w *CSVWriter) Write(_ context.Context, e Entry) error {
	if e.Source == "" {
		return fmt.Errorf("csv: entry %s has no source path", e.Recording)
	}
	path := CSVPath(e.Source)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".soundscape-*.csv")
	if err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	defer os.Remove(tmp.Name())

	keys := e.Record.Keys()
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = strconv.FormatFloat(e.Record[k], 'g', -1, 64)
	}

	cw := csv.NewWriter(tmp)
	if err := cw.WriteAll([][]string{keys, values}); err != nil {
		tmp.Close()
		return fmt.Errorf("csv: failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("csv: %w", err)
	}

	w.logger.Debug("Record written", logging.Fields{
		"recording": e.Recording,
		"path":      path,
		"columns":   len(keys),
	})
	return nil
}

func (w *CSVWriter) Close() error { return nil }

// ReadCSV loads a record written by CSVWriter.
func ReadCSV(path string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", path, err)
	}
	if len(rows) != 2 || len(rows[0]) != len(rows[1]) {
		return nil, fmt.Errorf("csv: %s: want a header and one value row", path)
	}

	record := make(map[string]float64, len(rows[0]))
	for i, key := range rows[0] {
		v, err := strconv.ParseFloat(rows[1][i], 64)
		if err != nil {
			return nil, fmt.Errorf("csv: %s: column %s: %w", path, key, err)
		}
		record[key] = v
	}
	return record, nil
}

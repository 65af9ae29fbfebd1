package soundscape

import (
	"sort"
	"strconv"
)

// Record is the flat result of one recording: index or sub-metric name to
// value. Disabled or failed indices have no key.
type Record map[string]float64

// Keys returns the record keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Record keys for multi-valued indices.
const (
	KeyActivitySNR      = "Acoustic_activity_SNR"
	KeyActivityFraction = "Acoustic_activity"
	KeyActivityEvents   = "Acoustic_activity_Count_acoustic_events"
	KeyActivityDuration = "Acoustic_activity_Average_duration"

	KeyFormantQ25 = "formant_q25"
	KeyFormantQ50 = "formant_q50"
	KeyFormantQ75 = "formant_q75"
	KeyFormantIQR = "formant_IQR"
	KeyFormantLen = "formant_len"
)

// descriptorMeans reduces a [frame][column] matrix to its column means.
// A single column is stored under name, several under name.0, name.1, ...
// Frames shorter than the first are ignored for the missing columns.
func descriptorMeans(name string, matrix [][]float64) map[string]float64 {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return nil
	}

	cols := len(matrix[0])
	sums := make([]float64, cols)
	counts := make([]int, cols)
	for _, row := range matrix {
		for c := 0; c < cols && c < len(row); c++ {
			sums[c] += row[c]
			counts[c]++
		}
	}

	out := make(map[string]float64, cols)
	if cols == 1 {
		out[name] = sums[0] / float64(counts[0])
		return out
	}
	for c := range cols {
		out[name+"."+strconv.Itoa(c)] = sums[c] / float64(counts[c])
	}
	return out
}

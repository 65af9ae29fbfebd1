package temporal

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

func TestHilbertSineIsFlat(t *testing.T) {
	const (
		fs = 8000
		n  = 4001 // odd and not 5-smooth, forces padding
	)
	x := make([]float64, n)
	for i := range x {
		x[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/fs)
	}

	env := NewEnvelope().Hilbert(x)
	if len(env) != n {
		t.Fatalf("len = %d, want %d", len(env), n)
	}

	// edges ring because of the padding; the middle should sit at 0.5
	for i := n / 4; i < 3*n/4; i++ {
		if math.Abs(env[i]-0.5) > 0.02 {
			t.Fatalf("env[%d] = %g, want ~0.5", i, env[i])
		}
	}
	for i, v := range env {
		if v < 0 {
			t.Fatalf("env[%d] = %g is negative", i, v)
		}
	}
}

func TestHilbertEmpty(t *testing.T) {
	if got := NewEnvelope().Hilbert(nil); len(got) != 0 {
		t.Errorf("Hilbert(nil) = %v, want empty", got)
	}
}

func TestComputePeak(t *testing.T) {
	x := []float64{0.1, -0.9, 0.2, 0.3, -0.4, 0.25, 1}
	peaks, err := NewEnvelope().ComputePeak(x, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.9, 0.4}
	if len(peaks) != len(want) || peaks[0] != want[0] || peaks[1] != want[1] {
		t.Errorf("peaks = %v, want %v", peaks, want)
	}

	if _, err := NewEnvelope().ComputePeak(x[:2], 3, 3); !errors.Is(err, common.ErrSignalTooShort) {
		t.Errorf("short signal: err = %v, want ErrSignalTooShort", err)
	}
	if _, err := NewEnvelope().ComputePeak(x, 0, 3); !errors.Is(err, common.ErrInvalidParams) {
		t.Errorf("zero frame: err = %v, want ErrInvalidParams", err)
	}
}

package spectral

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/soundscape/algorithms/common"
)

func linearAxis(n int, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSpectralFlatness(t *testing.T) {
	sf := NewSpectralFlatness()

	if got := sf.Compute(constant(64, 2)); math.Abs(got-1) > 1e-12 {
		t.Errorf("flat spectrum flatness = %v, want 1", got)
	}

	peaky := make([]float64, 64)
	peaky[10] = 1
	for i := range peaky {
		peaky[i] += 1e-3
	}
	if got := sf.Compute(peaky); got > 0.2 {
		t.Errorf("peaky spectrum flatness = %v, want < 0.2", got)
	}

	if got := sf.Compute(make([]float64, 64)); got != 0 {
		t.Errorf("silent spectrum flatness = %v, want 0", got)
	}
}

func TestSpectralFlux(t *testing.T) {
	sf := NewSpectralFlux()

	frames := [][]float64{
		{1, 0, 0},
		{2, 0, 0}, // same shape, louder
		{0, 1, 0},
	}
	flux := sf.ComputeFrames(frames)
	if len(flux) != 3 {
		t.Fatalf("got %d values, want 3", len(flux))
	}
	if flux[0] != 0 || flux[1] != 0 {
		t.Errorf("flux = %v, want zeros for the first two frames", flux)
	}
	if math.Abs(flux[2]-math.Sqrt2) > 1e-12 {
		t.Errorf("flux[2] = %v, want sqrt(2)", flux[2])
	}
}

func TestSpectralRolloff(t *testing.T) {
	freqs := linearAxis(8, 100)

	sr := NewSpectralRolloff(0.99)
	spectrum := []float64{0, 0, 0, 1, 0, 0, 0, 0}
	if got := sr.Compute(spectrum, freqs); got != 300 {
		t.Errorf("rolloff = %v, want 300", got)
	}

	half := NewSpectralRolloff(0.5)
	if got := half.Compute(constant(8, 1), freqs); got != 300 {
		t.Errorf("rolloff(0.5) of a flat spectrum = %v, want 300", got)
	}

	if got := sr.Compute(make([]float64, 8), freqs); got != 0 {
		t.Errorf("silent rolloff = %v, want 0", got)
	}
}

func TestSpectralSlope(t *testing.T) {
	ss := NewSpectralSlope()
	freqs := linearAxis(16, 50)

	if got := ss.Compute(constant(16, 1), freqs); got != 0 {
		t.Errorf("flat slope = %v, want 0", got)
	}

	rising := linearAxis(16, 1)
	falling := make([]float64, 16)
	for i := range falling {
		falling[i] = 16 - float64(i)
	}
	if ss.Compute(rising, freqs) <= 0 {
		t.Error("rising spectrum should have a positive slope")
	}
	if ss.Compute(falling, freqs) >= 0 {
		t.Error("falling spectrum should have a negative slope")
	}

	// gain independent
	loud := make([]float64, 16)
	for i, v := range rising {
		loud[i] = 10 * v
	}
	if a, b := ss.Compute(rising, freqs), ss.Compute(loud, freqs); math.Abs(a-b) > 1e-12*math.Abs(a) {
		t.Errorf("slope depends on gain: %v vs %v", a, b)
	}
}

func TestSpectralCrest(t *testing.T) {
	sc := NewSpectralCrest()

	if got := sc.Compute(constant(32, 3)); math.Abs(got-1) > 1e-12 {
		t.Errorf("flat crest = %v, want 1", got)
	}

	peaky := make([]float64, 32)
	peaky[5] = 1
	if got := sc.Compute(peaky); math.Abs(got-32) > 1e-12 {
		t.Errorf("single-bin crest = %v, want 32", got)
	}
}

func TestZeroCrossingRate(t *testing.T) {
	zcr := NewZeroCrossingRate(8, 4)

	alternating := []float64{1, -1, 1, -1, 1, -1, 1, -1, 1, -1, 1, -1}
	values, err := zcr.ComputeFrames(alternating)
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 2 {
		t.Fatalf("got %d frames, want 2", len(values))
	}
	for _, v := range values {
		if v != 7.0/8.0 {
			t.Errorf("zcr = %v, want 7/8", v)
		}
	}

	if got := zcr.Compute(constant(8, 0.5)); got != 0 {
		t.Errorf("constant signal zcr = %v, want 0", got)
	}

	if _, err := zcr.ComputeFrames(make([]float64, 4)); !errors.Is(err, common.ErrSignalTooShort) {
		t.Errorf("short signal: got %v", err)
	}
}

func TestMelScale(t *testing.T) {
	ms := NewMelScale()

	if got := ms.HzToMel(1000); math.Abs(got-1000) > 0.5 {
		t.Errorf("HzToMel(1000) = %v, want about 1000", got)
	}
	for _, hz := range []float64{0, 440, 6000} {
		if got := ms.MelToHz(ms.HzToMel(hz)); math.Abs(got-hz) > 1e-9 {
			t.Errorf("round trip of %v Hz gave %v", hz, got)
		}
	}

	freqs := linearAxis(512, 8000.0/1024)
	bank := ms.CreateMelFilterBank(20, freqs, 100, 3000)
	if len(bank) != 20 {
		t.Fatalf("got %d filters, want 20", len(bank))
	}
	for m, filter := range bank {
		peak := common.Max(filter)
		if peak <= 0 || peak > 1 {
			t.Errorf("filter %d peaks at %v", m, peak)
		}
		for k, f := range freqs {
			if (f <= 100 || f >= 3000) && filter[k] != 0 {
				t.Fatalf("filter %d is non-zero at %v Hz", m, f)
			}
		}
	}
}

func TestMFCC(t *testing.T) {
	freqs := linearAxis(512, 22050.0/1024)
	params := MFCCParams{
		NumCoefficients: 13,
		NumMelFilters:   40,
		LowFreq:         400,
		HighFreq:        6000,
	}

	full, err := NewMFCC(params, freqs)
	if err != nil {
		t.Fatal(err)
	}
	params.IgnoreFirst = true
	skipped, err := NewMFCC(params, freqs)
	if err != nil {
		t.Fatal(err)
	}

	spectrum := constant(512, 1)
	a := full.Compute(spectrum)
	b := skipped.Compute(spectrum)
	if len(a) != 13 || len(b) != 13 {
		t.Fatalf("got %d and %d coefficients, want 13", len(a), len(b))
	}
	for i := 0; i < 12; i++ {
		if math.Abs(a[i+1]-b[i]) > 1e-9 {
			t.Errorf("coefficient %d: %v vs %v", i+1, a[i+1], b[i])
		}
	}

	if _, err := NewMFCC(MFCCParams{NumCoefficients: 13, NumMelFilters: 40, LowFreq: 500, HighFreq: 100}, freqs); !errors.Is(err, common.ErrInvalidParams) {
		t.Errorf("inverted mel range: got %v", err)
	}
}

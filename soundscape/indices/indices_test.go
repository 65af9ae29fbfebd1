package indices

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/soundscape/algorithms/spectral"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

// lcg is a small deterministic noise source for test signals.
type lcg uint64

func (l *lcg) next() float64 {
	*l = *l*6364136223846793005 + 1442695040888963407
	return float64(uint64(*l)>>11)/float64(1<<53)*2 - 1
}

func noise(n int, amp float64, seed uint64) []float64 {
	src := lcg(seed)
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * src.next()
	}
	return out
}

func sine(freq float64, fs, n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(fs))
	}
	return out
}

func signal(samples []float64, fs int) Signal {
	return Signal{Samples: samples, SampleRate: fs, ID: "rec"}
}

func requireIndexError(t *testing.T, err error, index string, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("got %v, want %v", err, want)
	}
	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("error %v is not an *IndexError", err)
	}
	if ie.Index != index || ie.Recording != "rec" {
		t.Errorf("IndexError = {%q, %q}, want {%q, \"rec\"}", ie.Index, ie.Recording, index)
	}
}

func TestDisabledIndicesReturnNil(t *testing.T) {
	calc := NewCalculator(nil)
	sig := signal(noise(8000, 0.5, 1), 8000)

	if v, err := calc.AcousticComplexity(sig, config.ACIConfig{}); v != nil || err != nil {
		t.Errorf("ACI: %v, %v", v, err)
	}
	if v, err := calc.AcousticDiversity(sig, config.SegmentedConfig{}); v != nil || err != nil {
		t.Errorf("ADI: %v, %v", v, err)
	}
	if v, err := calc.AcousticEvenness(sig, config.SegmentedConfig{}); v != nil || err != nil {
		t.Errorf("AEI: %v, %v", v, err)
	}
	if v, err := calc.Bioacoustic(sig, config.BIConfig{}); v != nil || err != nil {
		t.Errorf("BI: %v, %v", v, err)
	}
	if v, err := calc.SpectralEntropy(sig, config.SpectrogramConfig{}); v != nil || err != nil {
		t.Errorf("SE: %v, %v", v, err)
	}
	if v, err := calc.TemporalEntropy(sig, config.ToggleConfig{}); v != nil || err != nil {
		t.Errorf("TE: %v, %v", v, err)
	}
	if v, err := calc.SpectralCentroid(sig, config.SpectrogramConfig{}); v != nil || err != nil {
		t.Errorf("centroid: %v, %v", v, err)
	}
	if v, err := calc.AcousticActivity(sig, config.AcousticActivityConfig{}); v != nil || err != nil {
		t.Errorf("activity: %v, %v", v, err)
	}
	if v, err := calc.Formants(sig, config.FormantsConfig{}); v != nil || err != nil {
		t.Errorf("formants: %v, %v", v, err)
	}

	if calc.Engine().Stats().Misses != 0 {
		t.Error("disabled indices should not touch the spectrogram engine")
	}
}

func TestAcousticComplexityScaleInvariant(t *testing.T) {
	calc := NewCalculator(spectral.NewEngine(0))
	cfg := config.Default().Bioacoustic.ACI

	x := noise(12*8000, 0.3, 7)
	scaled := make([]float64, len(x))
	for i, v := range x {
		scaled[i] = 3.7 * v
	}

	a, err := calc.AcousticComplexity(signal(x, 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := calc.AcousticComplexity(signal(scaled, 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if *a <= 0 {
		t.Errorf("ACI of noise = %v, want > 0", *a)
	}
	if math.Abs(*a-*b) > 1e-9*math.Abs(*a) {
		t.Errorf("ACI changed with gain: %v vs %v", *a, *b)
	}
}

func TestAcousticComplexityGrowsWithBlocks(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.ACI

	x := noise(24*8000, 0.3, 11)
	short, err := calc.AcousticComplexity(signal(x[:12*8000], 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}
	long, err := calc.AcousticComplexity(signal(x, 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}
	// 2 blocks against 4
	if *long < 1.5**short {
		t.Errorf("ACI over 4 blocks (%v) should be about twice ACI over 2 (%v)", *long, *short)
	}
}

func TestAcousticComplexityErrors(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.ACI

	_, err := calc.AcousticComplexity(signal(noise(2*8000, 0.3, 3), 8000), cfg)
	requireIndexError(t, err, config.IndexACI, ErrSignalTooShort)

	_, err = calc.AcousticComplexity(signal(make([]float64, 12*8000), 8000), cfg)
	requireIndexError(t, err, config.IndexACI, ErrZeroEnergy)

	tiny := cfg
	tiny.Params.Bin = 0.001
	_, err = calc.AcousticComplexity(signal(noise(8000, 0.3, 3), 8000), tiny)
	requireIndexError(t, err, config.IndexACI, ErrInvalidParams)
}

func TestSegmentedIndices(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.ADI

	white := signal(noise(2*22050, 0.5, 5), 22050)
	tone := signal(sine(1000, 22050, 2*22050, 0.5), 22050)

	adiNoise, err := calc.AcousticDiversity(white, cfg)
	if err != nil {
		t.Fatal(err)
	}
	aeiNoise, err := calc.AcousticEvenness(white, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if *adiNoise < 2.2 || *adiNoise > math.Log(10)+1e-12 {
		t.Errorf("ADI of white noise = %v, want close to ln(10)", *adiNoise)
	}
	if *aeiNoise > 0.05 {
		t.Errorf("AEI of white noise = %v, want close to 0", *aeiNoise)
	}

	adiTone, err := calc.AcousticDiversity(tone, cfg)
	if err != nil {
		t.Fatal(err)
	}
	aeiTone, err := calc.AcousticEvenness(tone, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if *adiTone >= *adiNoise {
		t.Errorf("ADI tone %v should be below noise %v", *adiTone, *adiNoise)
	}
	if *aeiTone <= *aeiNoise {
		t.Errorf("AEI tone %v should be above noise %v", *aeiTone, *aeiNoise)
	}
}

func TestSegmentedIndicesSilence(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.ADI
	silent := signal(make([]float64, 22050), 22050)

	_, err := calc.AcousticDiversity(silent, cfg)
	requireIndexError(t, err, config.IndexADI, ErrZeroEnergy)

	_, err = calc.AcousticEvenness(silent, cfg)
	requireIndexError(t, err, config.IndexAEI, ErrZeroEnergy)
}

func TestBioacoustic(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.BI

	x := sine(3000, 22050, 22050, 0.5)
	for i, v := range noise(len(x), 0.001, 9) {
		x[i] += v
	}
	bi, err := calc.Bioacoustic(signal(x, 22050), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if *bi <= 0 {
		t.Errorf("BI = %v, want > 0", *bi)
	}

	// fs_max above Nyquist is clamped
	low, err := calc.Bioacoustic(signal(noise(8000, 0.5, 2), 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if *low < 0 {
		t.Errorf("BI = %v, want >= 0", *low)
	}

	_, err = calc.Bioacoustic(signal(make([]float64, 22050), 22050), cfg)
	requireIndexError(t, err, config.IndexBI, ErrZeroEnergy)

	inverted := cfg
	inverted.Params = config.BIParams{FsMin: 6000, FsMax: 1000}
	_, err = calc.Bioacoustic(signal(x, 22050), inverted)
	requireIndexError(t, err, config.IndexBI, ErrEmptyBand)
}

func TestSpectralEntropy(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.SpectralEntropy

	tone, err := calc.SpectralEntropy(signal(sine(1000, 8000, 8000, 0.5), 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if *tone >= 0.3 {
		t.Errorf("spectral entropy of a tone = %v, want < 0.3", *tone)
	}

	white, err := calc.SpectralEntropy(signal(noise(8000, 0.5, 4), 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if *white < 0.9 || *white > 1+1e-9 {
		t.Errorf("spectral entropy of noise = %v, want close to 1", *white)
	}

	_, err = calc.SpectralEntropy(signal(make([]float64, 8000), 8000), cfg)
	requireIndexError(t, err, config.IndexSpectralEntropy, ErrZeroEnergy)
}

func TestTemporalEntropy(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.ToggleConfig{Use: true}

	steady, err := calc.TemporalEntropy(signal(sine(440, 8000, 8000, 0.5), 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if *steady < 0.99 || *steady > 1+1e-9 {
		t.Errorf("temporal entropy of a steady tone = %v, want close to 1", *steady)
	}

	burst := make([]float64, 8000)
	copy(burst[4000:], sine(440, 8000, 200, 0.5))
	peaky, err := calc.TemporalEntropy(signal(burst, 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if *peaky >= *steady {
		t.Errorf("burst entropy %v should be below steady entropy %v", *peaky, *steady)
	}

	_, err = calc.TemporalEntropy(signal([]float64{1}, 8000), cfg)
	requireIndexError(t, err, config.IndexTemporalEntropy, ErrSignalTooShort)

	_, err = calc.TemporalEntropy(signal(make([]float64, 100), 8000), cfg)
	requireIndexError(t, err, config.IndexTemporalEntropy, ErrZeroEnergy)
}

func TestSpectralCentroid(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.SpectralCentroid

	track, err := calc.SpectralCentroid(signal(sine(1000, 44100, 44100, 0.5), 44100), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(track.Mean-1000) > 44100.0/512 {
		t.Errorf("centroid = %v, want 1000 within one bin", track.Mean)
	}

	_, err = calc.SpectralCentroid(signal(make([]float64, 4096), 44100), cfg)
	requireIndexError(t, err, config.IndexSpectralCentroid, ErrZeroEnergy)
}

func TestSharedSpectrogram(t *testing.T) {
	calc := NewCalculator(spectral.NewEngine(4))
	cfg := config.Default()
	sig := signal(noise(12*8000, 0.3, 21), 8000)

	if _, err := calc.AcousticComplexity(sig, cfg.Bioacoustic.ACI); err != nil {
		t.Fatal(err)
	}
	if _, err := calc.SpectralEntropy(sig, cfg.Bioacoustic.SpectralEntropy); err != nil {
		t.Fatal(err)
	}
	if _, err := calc.SpectralCentroid(sig, cfg.Bioacoustic.SpectralCentroid); err != nil {
		t.Fatal(err)
	}

	stats := calc.Engine().Stats()
	if stats.Misses != 1 || stats.Hits != 2 {
		t.Errorf("expected one computation and two cache hits, got %+v", stats)
	}
}

// bursts builds frames of quiet and loud sine; loud holds [start, end)
// frame ranges.
func bursts(frames, frameLen, fs int, loud [][2]int) []float64 {
	x := sine(440, fs, frames*frameLen, 0.01)
	for _, r := range loud {
		for i := r[0] * frameLen; i < r[1]*frameLen; i++ {
			x[i] *= 100
		}
	}
	return x
}

func TestAcousticActivityEvents(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.AcousticActivity

	x := bursts(200, 512, 8000, [][2]int{{50, 60}, {120, 140}})
	res, err := calc.AcousticActivity(signal(x, 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if res.EventCount != 2 {
		t.Errorf("events = %d, want 2", res.EventCount)
	}
	if math.Abs(res.Activity-0.15) > 1e-12 {
		t.Errorf("activity = %v, want 0.15", res.Activity)
	}
	// mean of 10 and 20 frames, 64 ms each
	if math.Abs(res.AverageDuration-0.96) > 1e-9 {
		t.Errorf("average duration = %v, want 0.96", res.AverageDuration)
	}
	if math.Abs(res.SNR-40) > 0.5 {
		t.Errorf("SNR = %v, want about 40 dB", res.SNR)
	}

	wider := cfg
	wider.Params.N = 1
	res2, err := calc.AcousticActivity(signal(x, 8000), wider)
	if err != nil {
		t.Fatal(err)
	}
	if res2.BackgroundDB < res.BackgroundDB || res2.SNR > res.SNR {
		t.Errorf("N=1 background %v should not be below N=0 background %v", res2.BackgroundDB, res.BackgroundDB)
	}
}

func TestAcousticActivitySteady(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.AcousticActivity

	res, err := calc.AcousticActivity(signal(sine(1000, 44100, 44100, 0.5), 44100), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.EventCount != 0 || res.AverageDuration != 0 || res.Activity != 0 {
		t.Errorf("steady tone reported activity: %+v", res)
	}
}

func TestAcousticActivityTooShort(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default().Bioacoustic.AcousticActivity

	_, err := calc.AcousticActivity(signal(make([]float64, 100), 8000), cfg)
	requireIndexError(t, err, config.IndexAcousticActivity, ErrSignalTooShort)
}

func TestDetectEvents(t *testing.T) {
	tests := []struct {
		name   string
		excess []float64
		count  int
		mean   float64
	}{
		{"empty", nil, 0, 0},
		{"never active", []float64{-1, -1, -1}, 0, 0},
		{"single event", []float64{-1, 1, 1, -1}, 1, 2},
		// the leading end has no start and is dropped; zipping ends with
		// later starts would measure the silent gap (2 frames) instead
		{"active at start", []float64{1, 1, -1, -1, 1, -1}, 1, 1},
		{"unfinished event", []float64{-1, 1, 1, -1, -1, 1, 1}, 1, 2},
		{"two events", []float64{-1, 1, -1, 1, 1, 1, -1}, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, mean := detectEvents(tt.excess)
			if count != tt.count || mean != tt.mean {
				t.Errorf("detectEvents = (%d, %v), want (%d, %v)", count, mean, tt.count, tt.mean)
			}
		})
	}
}

func TestFormants(t *testing.T) {
	calc := NewCalculator(nil)
	order := 8
	cfg := config.FormantsConfig{Use: true, Params: config.FormantsParams{Order: &order}}

	x := sine(1000, 8000, 8000, 0.5)
	for i, v := range noise(len(x), 0.001, 13) {
		x[i] += v
	}

	res, err := calc.Formants(signal(x, 8000), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.LPCOrder != 8 {
		t.Errorf("order = %d, want 8", res.LPCOrder)
	}
	found := false
	for _, f := range res.Frequencies {
		if math.Abs(f-1000) < 20 {
			found = true
		}
	}
	if !found {
		t.Errorf("no formant near 1000 Hz in %v", res.Frequencies)
	}
	q := res.Quartiles
	if q.Q1 > q.Q2 || q.Q2 > q.Q3 || q.IQR != q.Q3-q.Q1 || q.Count != len(res.Frequencies) {
		t.Errorf("inconsistent quartiles %+v", q)
	}

	// default order is fs/1000
	res, err = calc.Formants(signal(x, 8000), config.FormantsConfig{Use: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.LPCOrder != 8 {
		t.Errorf("default order = %d, want 8", res.LPCOrder)
	}

	_, err = calc.Formants(signal(make([]float64, 4), 8000), cfg)
	requireIndexError(t, err, config.IndexFormants, ErrSignalTooShort)
}

func TestInvalidSignal(t *testing.T) {
	calc := NewCalculator(nil)
	cfg := config.Default()

	_, err := calc.SpectralEntropy(Signal{Samples: noise(1024, 1, 1), ID: "rec"}, cfg.Bioacoustic.SpectralEntropy)
	requireIndexError(t, err, config.IndexSpectralEntropy, ErrInvalidParams)

	_, err = calc.TemporalEntropy(Signal{SampleRate: 8000, ID: "rec"}, cfg.Bioacoustic.TemporalEntropy)
	requireIndexError(t, err, config.IndexTemporalEntropy, ErrSignalTooShort)
}

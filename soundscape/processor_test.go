package soundscape

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/RyanBlaney/soundscape/soundscape/config"
	"github.com/RyanBlaney/soundscape/soundscape/indices"
)

func quickConfig() *config.Config {
	cfg := config.Default()
	cfg.Bioacoustic.ACI.Use = false
	cfg.Bioacoustic.Formants.Use = false
	return cfg
}

func noiseJob(id string, seed uint64) Job {
	return Job{
		ID: id,
		Load: func(ctx context.Context) (indices.Signal, error) {
			if err := ctx.Err(); err != nil {
				return indices.Signal{}, err
			}
			return indices.Signal{Samples: whiteNoise(8000, seed), SampleRate: 8000}, nil
		},
	}
}

func collect(results <-chan Result) map[string]Result {
	out := make(map[string]Result)
	for r := range results {
		out[r.JobID] = r
	}
	return out
}

func TestProcessorRun(t *testing.T) {
	p, err := NewProcessor(quickConfig(), &ProcessorConfig{Workers: 3}, nil)
	if err != nil {
		t.Fatal(err)
	}

	jobs := []Job{
		noiseJob("a", 1),
		noiseJob("b", 2),
		{
			ID: "broken",
			Load: func(context.Context) (indices.Signal, error) {
				return indices.Signal{}, fmt.Errorf("unsupported format")
			},
		},
		noiseJob("c", 3),
		noiseJob("d", 4),
	}

	results := collect(p.Run(context.Background(), jobs))
	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}

	runID := p.LastRunID()
	if runID == "" {
		t.Fatal("run ID not set")
	}
	for id, r := range results {
		if r.RunID != runID {
			t.Errorf("%s: run ID %q, want %q", id, r.RunID, runID)
		}
		if id == "broken" {
			if r.Err == nil || r.Record != nil {
				t.Errorf("broken job: record %v, err %v", r.Record, r.Err)
			}
			continue
		}
		if r.Err != nil {
			t.Errorf("%s: %v", id, r.Err)
		}
		if _, ok := r.Record[config.IndexSpectralEntropy]; !ok {
			t.Errorf("%s: record missing spectral entropy: %v", id, r.Record)
		}
	}

	// identical signals give identical records regardless of worker
	again := collect(p.Run(context.Background(), []Job{noiseJob("a", 1)}))
	for k, v := range results["a"].Record {
		if again["a"].Record[k] != v {
			t.Errorf("%s differs between runs", k)
		}
	}
	if p.LastRunID() == runID {
		t.Error("each run should get a fresh ID")
	}
}

func TestProcessorCancel(t *testing.T) {
	p, err := NewProcessor(quickConfig(), &ProcessorConfig{Workers: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := []Job{{
		ID: "first",
		Load: func(context.Context) (indices.Signal, error) {
			cancel()
			return indices.Signal{Samples: whiteNoise(8000, 9), SampleRate: 8000}, nil
		},
	}}
	for i := range 4 {
		jobs = append(jobs, noiseJob(fmt.Sprintf("later-%d", i), uint64(i)))
	}

	results := collect(p.Run(ctx, jobs))
	first, ok := results["first"]
	if !ok || first.Err != nil {
		t.Fatalf("in-flight job should finish: %+v", first)
	}
	for id, r := range results {
		if id != "first" && !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s ran after cancellation: %+v", id, r)
		}
	}
}

func TestProcessorDropPolicy(t *testing.T) {
	p, err := NewProcessor(config.Default(), &ProcessorConfig{Workers: 1, Policy: DropRecord}, nil)
	if err != nil {
		t.Fatal(err)
	}

	silent := Job{
		ID: "silent",
		Load: func(context.Context) (indices.Signal, error) {
			return indices.Signal{Samples: make([]float64, 8000), SampleRate: 8000}, nil
		},
	}
	results := collect(p.Run(context.Background(), []Job{silent}))
	r := results["silent"]
	if r.Record != nil || r.Err == nil {
		t.Errorf("silent recording under DropRecord: %+v", r)
	}
	var ie *indices.IndexError
	if !errors.As(r.Err, &ie) || ie.Recording != "silent" {
		t.Errorf("error should name the recording: %v", r.Err)
	}
}

func TestNewProcessorValidation(t *testing.T) {
	if _, err := NewProcessor(nil, &ProcessorConfig{Workers: 0}, nil); err == nil {
		t.Error("zero workers should be rejected")
	}

	cfg := config.Default()
	cfg.Bioacoustic.BI.Params.FsMax = 0
	if _, err := NewProcessor(cfg, nil, nil); err == nil {
		t.Error("invalid config should be rejected")
	}
}

func TestProcessorEmpty(t *testing.T) {
	p, err := NewProcessor(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if results := collect(p.Run(context.Background(), nil)); len(results) != 0 {
		t.Errorf("got %d results for no jobs", len(results))
	}
}

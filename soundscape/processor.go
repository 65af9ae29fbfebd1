package soundscape

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/RyanBlaney/soundscape/logging"
	"github.com/RyanBlaney/soundscape/soundscape/config"
	"github.com/RyanBlaney/soundscape/soundscape/indices"
	"github.com/google/uuid"
)

// Job is one recording to analyse. Load runs on the worker, so decoding
// failures stay isolated to the job.
type Job struct {
	ID   string
	Load func(ctx context.Context) (indices.Signal, error)
}

// Result is the outcome of one Job. Record may be non-nil together with a
// non-nil Err when some indices failed under OmitFailedIndices.
type Result struct {
	RunID    string
	JobID    string
	Record   Record
	Err      error
	Duration time.Duration
}

// ProcessorConfig holds batch settings.
type ProcessorConfig struct {
	Workers int           `yaml:"workers" json:"workers"`
	Policy  FailurePolicy `yaml:"policy" json:"policy"`
}

// DefaultProcessorConfig uses one worker per CPU.
func DefaultProcessorConfig() *ProcessorConfig {
	return &ProcessorConfig{
		Workers: runtime.NumCPU(),
		Policy:  OmitFailedIndices,
	}
}

// Processor analyses recordings in parallel. Each worker owns an Analyzer
// with its own spectrogram cache.
type Processor struct {
	config    *config.Config
	procCfg   *ProcessorConfig
	features  FeatureEngine
	logger    logging.Logger
	lastRunID string
	mu        sync.Mutex
}

// NewProcessor validates cfg and prepares a processor. fe may be nil; when
// set it must be safe for concurrent use.
func NewProcessor(cfg *config.Config, procCfg *ProcessorConfig, fe FeatureEngine) (*Processor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if procCfg == nil {
		procCfg = DefaultProcessorConfig()
	}
	if procCfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", procCfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &Processor{
		config:   cfg,
		procCfg:  procCfg,
		features: fe,
		logger: logging.WithFields(logging.Fields{
			"component": "batch_processor",
		}),
	}, nil
}

// LastRunID returns the ID of the most recent Run.
func (p *Processor) LastRunID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRunID
}

// Run analyses jobs and streams results in completion order. The channel
// is closed once every dispatched job has finished. Cancelling ctx stops
// dispatching; jobs already running complete and are reported.
func (p *Processor) Run(ctx context.Context, jobs []Job) <-chan Result {
	runID := uuid.NewString()
	p.mu.Lock()
	p.lastRunID = runID
	p.mu.Unlock()

	logger := p.logger.WithFields(logging.Fields{"run_id": runID})
	workers := min(p.procCfg.Workers, max(len(jobs), 1))

	logger.Info("Batch started", logging.Fields{
		"jobs":    len(jobs),
		"workers": workers,
	})

	queue := make(chan Job)
	results := make(chan Result, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, runID, queue, results)
		}()
	}

	go func() {
		defer close(queue)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				logger.Warn("Batch cancelled, remaining jobs skipped", logging.Fields{
					"reason": ctx.Err().Error(),
				})
				return
			case queue <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
		logger.Info("Batch finished")
	}()

	return results
}

func (p *Processor) worker(ctx context.Context, runID string, queue <-chan Job, results chan<- Result) {
	opts := []Option{WithFailurePolicy(p.procCfg.Policy)}
	if p.features != nil {
		opts = append(opts, WithFeatureEngine(p.features))
	}
	// config was validated in NewProcessor
	analyzer, err := NewAnalyzer(p.config, opts...)

	for job := range queue {
		start := time.Now()
		res := Result{RunID: runID, JobID: job.ID}

		if err != nil {
			res.Err = err
		} else {
			res.Record, res.Err = p.process(ctx, analyzer, job)
		}
		res.Duration = time.Since(start)

		results <- res
	}
}

func (p *Processor) process(ctx context.Context, analyzer *Analyzer, job Job) (Record, error) {
	sig, err := job.Load(ctx)
	if err != nil {
		p.logger.Error(err, "Failed to load recording", logging.Fields{"recording": job.ID})
		return nil, fmt.Errorf("failed to load %s: %w", job.ID, err)
	}
	if sig.ID == "" {
		sig.ID = job.ID
	}
	return analyzer.ComputeAll(sig)
}

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/soundscape/logging"
	"github.com/RyanBlaney/soundscape/results"
	"github.com/RyanBlaney/soundscape/soundscape"
	"github.com/RyanBlaney/soundscape/soundscape/config"
	"github.com/RyanBlaney/soundscape/soundscape/features"
	"github.com/RyanBlaney/soundscape/soundscape/indices"
	"github.com/RyanBlaney/soundscape/transcode"
)

var (
	workers   int
	resume    bool
	storeDir  string
	policyArg string
)

var runCmd = &cobra.Command{
	Use:   "run <file|dir>...",
	Short: "Compute indices for recordings",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runBatch(ctx, args)
	},
}

func init() {
	defaults := soundscape.DefaultProcessorConfig()
	runCmd.Flags().IntVarP(&workers, "jobs", "j", defaults.Workers, "parallel workers")
	runCmd.Flags().BoolVar(&resume, "resume", false, "skip recordings that already have a CSV")
	runCmd.Flags().StringVar(&storeDir, "store", "", "also keep records in a Badger database at this directory")
	runCmd.Flags().StringVar(&policyArg, "policy", "omit", "on index failure: omit (drop the index) or drop (drop the record)")
	rootCmd.AddCommand(runCmd)
}

func runBatch(ctx context.Context, paths []string) error {
	logger := logging.WithFields(logging.Fields{
		"component": "cli",
	})

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	policy, err := soundscape.ParseFailurePolicy(policyArg)
	if err != nil {
		return err
	}

	var fe soundscape.FeatureEngine
	if len(cfg.Spectral.Enabled()) > 0 {
		engine, err := features.NewEngine(cfg.Spectral)
		if err != nil {
			return err
		}
		fe = engine
	}

	processor, err := soundscape.NewProcessor(cfg, &soundscape.ProcessorConfig{
		Workers: workers,
		Policy:  policy,
	}, fe)
	if err != nil {
		return err
	}

	loader := transcode.NewLoader(nil)
	found, err := discover(paths, loader.Supports, resume)
	if err != nil {
		return err
	}

	sink, err := openSinks()
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Error(err, "Failed to close result store")
		}
	}()

	jobs := make([]soundscape.Job, len(found.files))
	for i, path := range found.files {
		jobs[i] = soundscape.Job{
			ID: path,
			Load: func(ctx context.Context) (indices.Signal, error) {
				data, err := loader.Load(ctx, path)
				if err != nil {
					return indices.Signal{}, err
				}
				return data.Signal(path), nil
			},
		}
	}

	sum := &summary{skipped: len(found.skipped)}
	start := time.Now()

	for res := range processor.Run(ctx, jobs) {
		sum.runID = res.RunID
		if res.Record == nil {
			sum.fail(res.JobID, res.Err)
			continue
		}

		entry := results.Entry{
			RunID:     res.RunID,
			Recording: res.JobID,
			Source:    res.JobID,
			Record:    res.Record,
			Failures:  soundscape.FailedIndices(res.Err),
			CreatedAt: time.Now(),
		}
		if err := sink.Write(ctx, entry); err != nil {
			logger.Error(err, "Failed to write record", logging.Fields{"recording": res.JobID})
			sum.fail(res.JobID, err)
			continue
		}
		sum.done(res.JobID, res.Err)
	}

	sum.elapsed = time.Since(start)
	if sum.runID == "" {
		sum.runID = processor.LastRunID()
	}
	fmt.Println(sum.render())

	if ctx.Err() != nil {
		return fmt.Errorf("interrupted: %w", ctx.Err())
	}
	if sum.failed > 0 {
		return fmt.Errorf("%d of %d recordings failed", sum.failed, len(jobs))
	}
	return nil
}

func openSinks() (results.Sink, error) {
	sinks := results.Multi{results.NewCSVWriter()}
	if storeDir != "" {
		store, err := results.OpenBadger(results.BadgerOptions{Dir: storeDir})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, store)
	}
	return sinks, nil
}

// describeFailure shortens a job error for the summary table.
func describeFailure(err error) string {
	if names := soundscape.FailedIndices(err); len(names) > 0 {
		return fmt.Sprintf("failed indices: %v", names)
	}
	var ve *config.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	if errors.Is(err, transcode.ErrUnsupportedFormat) {
		return "unsupported format"
	}
	return err.Error()
}

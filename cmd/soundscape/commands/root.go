package commands

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/soundscape/logging"
	"github.com/RyanBlaney/soundscape/soundscape/config"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "soundscape",
	Short: "Soundscape ecology indices for field recordings",
	Long: `soundscape computes acoustic indices (ACI, ADI, BI, AEI, entropies,
spectral centroid, acoustic activity, formants) for audio recordings and
writes one CSV per recording next to the audio.

Examples:
  soundscape run ./recordings
  soundscape run -c indices.yaml -j 8 --resume ./site1 ./site2
  soundscape run --store ./runs.db dawn.wav
  soundscape show --store ./runs.db <run-id>
  soundscape config > indices.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.GetGlobalLogger().SetLevel(logging.ParseLevel(logLevel))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "index configuration (YAML); defaults when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	return config.Load(configFile)
}

// Package cli wires the taxlytics commands.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taxlytics/taxlytics/internal/config"
	"github.com/taxlytics/taxlytics/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "taxlytics",
	Short: "Synthesize taxpayer records and compute tax analytics",
	Long: `taxlytics generates seed-reproducible synthetic US tax records and
computes statistical summaries over them: income distribution, tax rates,
deductions, refunds, state comparisons, capital gains, credits, and FICA.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			loaded, err := config.LoadFromFile(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = config.Default()
		}
		log = logging.New(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// flagOrConfigInt prefers an explicitly set flag over the config value.
func flagOrConfigInt(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, err := cmd.Flags().GetInt(name)
		if err == nil {
			return v
		}
	}
	return fallback
}

func flagOrConfigInt64(cmd *cobra.Command, name string, fallback int64) int64 {
	if cmd.Flags().Changed(name) {
		v, err := cmd.Flags().GetInt64(name)
		if err == nil {
			return v
		}
	}
	return fallback
}

func flagOrConfigString(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, err := cmd.Flags().GetString(name)
		if err == nil && v != "" {
			return v
		}
	}
	return fallback
}

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/taxlytics/taxlytics/internal/calculation"
	"github.com/taxlytics/taxlytics/internal/dataset"
	"github.com/taxlytics/taxlytics/internal/output"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the full console report and export JSON and state CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := flagOrConfigString(cmd, "in", cfg.DataFile)

		// Generate the dataset first if it does not exist yet.
		if _, err := os.Stat(in); err != nil {
			gen := calculation.NewGenerator()
			gen.Log = log
			ds, err := gen.Generate(cfg.Seed, cfg.Records)
			if err != nil {
				return err
			}
			if err := dataset.Write(in, ds); err != nil {
				return err
			}
		}

		ds, err := dataset.Load(in)
		if err != nil {
			return err
		}
		log.Infof("loaded %d tax records from %s", len(ds), in)

		report := calculation.RunFullAnalysis(ds)

		text, err := output.ConsoleFormatter{}.Format(report)
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(text); err != nil {
			return err
		}

		csvFile, err := output.WriteFormatted(output.StateCSVFormatter{}, report, "csv")
		if err != nil {
			return err
		}
		jsonFile, err := output.WriteFormatted(output.JSONFormatter{}, report, "json")
		if err != nil {
			return err
		}
		log.Infof("state summary exported to %s", csvFile)
		log.Infof("full analysis exported to %s", jsonFile)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("in", "tax_data.csv", "input dataset CSV")
}

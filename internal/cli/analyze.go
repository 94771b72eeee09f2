package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taxlytics/taxlytics/internal/calculation"
	"github.com/taxlytics/taxlytics/internal/dataset"
	"github.com/taxlytics/taxlytics/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis over a dataset and emit one format",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := flagOrConfigString(cmd, "in", cfg.DataFile)
		format, _ := cmd.Flags().GetString("format")
		outFile, _ := cmd.Flags().GetString("out")

		f := output.GetFormatterByName(format)
		if f == nil {
			return fmt.Errorf("unknown format %q, available: %v", format, output.AvailableFormatterNames())
		}

		ds, err := dataset.Load(in)
		if err != nil {
			return err
		}
		log.Infof("loaded %d tax records from %s", len(ds), in)

		report := calculation.RunFullAnalysis(ds)
		data, err := f.Format(report)
		if err != nil {
			return err
		}

		if outFile == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		return os.WriteFile(outFile, data, 0644)
	},
}

func init() {
	analyzeCmd.Flags().String("in", "tax_data.csv", "input dataset CSV")
	analyzeCmd.Flags().String("format", "json", "output format (console, json, csv)")
	analyzeCmd.Flags().String("out", "", "write output to file instead of stdout")
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/taxlytics/taxlytics/internal/calculation"
	"github.com/taxlytics/taxlytics/internal/dataset"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic tax record dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		records := flagOrConfigInt(cmd, "records", cfg.Records)
		seed := flagOrConfigInt64(cmd, "seed", cfg.Seed)
		out := flagOrConfigString(cmd, "out", cfg.DataFile)

		gen := calculation.NewGenerator()
		gen.Log = log
		ds, err := gen.Generate(seed, records)
		if err != nil {
			return err
		}
		if err := dataset.Write(out, ds); err != nil {
			return err
		}
		log.Infof("wrote %d records to %s", len(ds), out)
		return nil
	},
}

func init() {
	generateCmd.Flags().Int("records", 500, "number of records to generate")
	generateCmd.Flags().Int64("seed", 42, "random seed")
	generateCmd.Flags().String("out", "tax_data.csv", "output CSV path")
}

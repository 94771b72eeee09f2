package cli

import (
	"github.com/spf13/cobra"

	"github.com/taxlytics/taxlytics/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.ListenAddr = flagOrConfigString(cmd, "addr", cfg.ListenAddr)
		return server.New(cfg, log).ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "listen address")
}

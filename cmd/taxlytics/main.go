package main

import (
	"os"

	"github.com/taxlytics/taxlytics/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

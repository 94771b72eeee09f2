// Package config loads and validates the analyzer configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taxlytics/taxlytics/internal/calculation"
)

// Config holds the runtime settings shared by the CLI and the HTTP server.
type Config struct {
	// Records and Seed control dataset generation.
	Records int   `yaml:"records"`
	Seed    int64 `yaml:"seed"`

	// DataFile is the CSV the dataset is persisted to and loaded from.
	DataFile string `yaml:"data_file"`

	// ListenAddr is the HTTP bind address for serve mode.
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Environment variables overriding file and default values.
const (
	EnvListenAddr = "TAXLYTICS_ADDR"
	EnvDataFile   = "TAXLYTICS_DATA_FILE"
)

// Default returns the configuration used when no file is given. Environment
// overrides are applied on top.
func Default() *Config {
	cfg := &Config{
		Records:    500,
		Seed:       42,
		DataFile:   "tax_data.csv",
		ListenAddr: ":8000",
		LogLevel:   "info",
	}
	cfg.applyEnv()
	return cfg
}

// LoadFromFile reads a YAML configuration file over the defaults. Environment
// overrides win over file values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvListenAddr); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv(EnvDataFile); v != "" {
		c.DataFile = v
	}
}

// Validate checks the configuration before any work starts.
func (c *Config) Validate() error {
	if c.Records < calculation.MinRecords || c.Records > calculation.MaxRecords {
		return fmt.Errorf("records must be between %d and %d", calculation.MinRecords, calculation.MaxRecords)
	}
	if c.DataFile == "" {
		return fmt.Errorf("data_file is required")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	return nil
}

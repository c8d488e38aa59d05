// Package config defines the runtime configuration of the shapec tool and
// its YAML loader.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/coordgeom/shape-core/pkg/shape"
)

// Config holds runtime settings. The measure engine itself takes its
// knobs per call; this configures the surrounding tool.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Mode selects the search effort: fast, default or intensive.
	Mode string `yaml:"mode"`
	// Seed drives the search randomness; 0 draws a fresh seed per run.
	Seed int64 `yaml:"seed"`
	// Workers bounds the number of concurrent measure computations.
	Workers int `yaml:"workers"`
	// Libraries lists extra YAML geometry library files to load next to
	// the built-in shapes.
	Libraries []string `yaml:"libraries"`
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Mode:     string(shape.ModeDefault),
		Workers:  runtime.NumCPU(),
	}
}

// Load reads and parses a YAML configuration file and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func validate(cfg *Config) error {
	if _, err := shape.ParseMode(cfg.Mode); err != nil {
		return err
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return nil
}

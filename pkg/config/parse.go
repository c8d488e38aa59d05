package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse parses a Config from YAML bytes, fills defaults for unset fields
// and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}
	if cfg.Mode == "" {
		cfg.Mode = Default().Mode
	}
	if cfg.Workers == 0 {
		cfg.Workers = Default().Workers
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ParseString parses a Config from a YAML string.
func ParseString(yamlText string) (*Config, error) {
	return Parse([]byte(yamlText))
}

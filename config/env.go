package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load returns DefaultConfig with any EXTRACT_* environment overrides applied.
// Unset variables leave the defaults untouched.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

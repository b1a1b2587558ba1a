package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv overlays CAMPUSMARKET_* environment variables. Unset variables
// keep the current value. A non-nil environment replaces the process
// environment, which tests use.
func parseEnv(cfg *Config, environment map[string]string) error {
	opts := env.Options{}
	if environment != nil {
		opts.Environment = environment
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

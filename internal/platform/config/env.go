// Package config holds the shared configuration helpers used by the
// simulator's commands.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment variable the simulator reads.
const EnvPrefix = "NPD_"

// ParseEnv loads configuration from environment variables into target.
// Field tags name the variable without EnvPrefix.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

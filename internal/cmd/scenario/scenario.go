// Package scenario parses scenario command flags and runs Lua scenarios.
package scenario

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	entrypoint "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/cmd"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/tools/scenario"
)

// Config holds scenario command configuration.
type Config struct {
	Scenario   string        `env:"SCENARIO_FILE"`
	Assertions bool          `env:"SCENARIO_ASSERT"  envDefault:"true"`
	Verbose    bool          `env:"SCENARIO_VERBOSE"`
	Timeout    time.Duration `env:"SCENARIO_TIMEOUT" envDefault:"30s"`
	Seed       int64         `env:"SEED"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "path to scenario lua file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout per step")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the scenario command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Scenario == "" {
		return errors.New("scenario path is required")
	}

	mode := scenario.AssertionStrict
	if !cfg.Assertions {
		mode = scenario.AssertionLogOnly
	}

	logger := log.New(errOut, "", 0)
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceScenario, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		runner, err := scenario.NewRunner(scenario.Config{
			Timeout:    cfg.Timeout,
			Assertions: mode,
			Verbose:    cfg.Verbose,
			Logger:     logger,
			Seed:       cfg.Seed,
		})
		if err != nil {
			return err
		}
		loaded, err := scenario.LoadScenarioFromFile(cfg.Scenario)
		if err != nil {
			return err
		}
		if err := runner.RunScenario(ctx, loaded); err != nil {
			return err
		}
		if failures := runner.Failures(); failures > 0 {
			fmt.Fprintf(out, "scenario done with %d failed expectations: %s (seed %d)\n", failures, cfg.Scenario, runner.Seed())
			return nil
		}
		fmt.Fprintf(out, "scenario ok: %s (seed %d)\n", cfg.Scenario, runner.Seed())
		return nil
	})
}

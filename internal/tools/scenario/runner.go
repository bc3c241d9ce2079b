package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/timeouts"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/random"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/tournament"
)

// Config controls scenario execution.
type Config struct {
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
	// Seed fixes the random stream; zero picks a fresh seed.
	Seed int64
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
		Verbose:    false,
	}
}

// Runner executes Lua scenarios against an in-process tournament engine.
type Runner struct {
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
	seed       int64
	rng        *rand.Rand
}

// NewRunner prepares a runner with its own seeded random stream.
func NewRunner(cfg Config) (*Runner, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScenarioStep
	}

	seed, err := random.Resolve(cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	return &Runner{
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
		seed:       seed,
		rng:        random.New(seed),
	}, nil
}

// Seed returns the seed the runner's random stream started from.
func (r *Runner) Seed() int64 {
	return r.seed
}

// Failures counts unmet expectations, including those only logged.
func (r *Runner) Failures() int {
	return r.assertions.Failures()
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order. Players and their
// scoreboards live for the whole scenario.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps, seed %d)", scenario.Name, len(scenario.Steps), r.seed)
	state := newScenarioState()

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

type scenarioState struct {
	config  tournament.Config
	players []*tournament.Player
	byName  map[string]*tournament.Player
}

func newScenarioState() *scenarioState {
	return &scenarioState{
		config: tournament.Config{
			RoundsPerGame: 10,
			Payoffs:       tournament.DefaultPayoffs(),
		},
		byName: map[string]*tournament.Player{},
	}
}

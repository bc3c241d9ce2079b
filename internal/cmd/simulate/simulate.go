// Package simulate parses simulate command flags and runs a population
// through repeated round-robin tournaments.
package simulate

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"strconv"

	entrypoint "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/cmd"
	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/tournament"
	"golang.org/x/text/language"
)

// Config holds simulate command configuration.
type Config struct {
	Population     int     `env:"POPULATION"      envDefault:"20"`
	Magnitude      float64 `env:"MAGNITUDE"       envDefault:"1.0"`
	RoundsPerGame  int     `env:"ROUNDS_PER_GAME" envDefault:"10"`
	GamesPerPair   int     `env:"GAMES_PER_PAIR"  envDefault:"5"`
	Rounds         int     `env:"ROUNDS"          envDefault:"1"`
	Memory         int     `env:"MEMORY"`
	BothCooperate  int     `env:"BOTH_COOPERATE"  envDefault:"3"`
	BothDefect     int     `env:"BOTH_DEFECT"     envDefault:"1"`
	DefectorGain   int     `env:"DEFECTOR_GAIN"   envDefault:"5"`
	CooperatorLoss int     `env:"COOPERATOR_LOSS" envDefault:"0"`
	Seed           int64   `env:"SEED"`
	Narrate        bool    `env:"NARRATE"`
	Top            int     `env:"TOP"             envDefault:"10"`
	DBPath         string  `env:"DB_PATH"`
	Lang           string  `env:"LANG"            envDefault:"en"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.IntVar(&cfg.Population, "population", cfg.Population, "number of players")
	fs.Float64Var(&cfg.Magnitude, "magnitude", cfg.Magnitude, "weights are sampled from [-magnitude, magnitude)")
	fs.IntVar(&cfg.RoundsPerGame, "rounds-per-game", cfg.RoundsPerGame, "rounds in every match")
	fs.IntVar(&cfg.GamesPerPair, "games", cfg.GamesPerPair, "matches per pair in each round robin")
	fs.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "round-robin passes")
	fs.IntVar(&cfg.Memory, "memory", cfg.Memory, "past rounds a decision considers (0 = whole match)")
	fs.IntVar(&cfg.BothCooperate, "both-cooperate", cfg.BothCooperate, "payoff when both cooperate")
	fs.IntVar(&cfg.BothDefect, "both-defect", cfg.BothDefect, "payoff when both defect")
	fs.IntVar(&cfg.DefectorGain, "defector-gain", cfg.DefectorGain, "payoff for defecting against a cooperator")
	fs.IntVar(&cfg.CooperatorLoss, "cooperator-loss", cfg.CooperatorLoss, "payoff for cooperating against a defector")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
	fs.BoolVar(&cfg.Narrate, "narrate", cfg.Narrate, "narrate the first match round by round")
	fs.IntVar(&cfg.Top, "top", cfg.Top, "standings to print (0 = all)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite results ledger path (empty = none)")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "locale for number formatting")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot produce a run.
func (c Config) Validate() error {
	if c.Population < 2 {
		return apperrors.WithMetadata(apperrors.CodePopulationTooSmall, "population must have at least two players",
			map[string]string{"population": strconv.Itoa(c.Population)})
	}
	positive := []struct {
		name  string
		value int
	}{
		{"rounds per game", c.RoundsPerGame},
		{"games per pair", c.GamesPerPair},
		{"rounds", c.Rounds},
	}
	for _, field := range positive {
		if field.value < 1 {
			return apperrors.WithMetadata(apperrors.CodeInvalidArgument, field.name+" must be positive",
				map[string]string{"value": strconv.Itoa(field.value)})
		}
	}
	if c.Magnitude < 0 {
		return apperrors.New(apperrors.CodeInvalidArgument, "magnitude must be non-negative")
	}
	if _, err := language.Parse(c.Lang); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid language tag", err)
	}
	return nil
}

func (c Config) tournament() tournament.Config {
	return tournament.Config{
		RoundsPerGame: c.RoundsPerGame,
		Memory:        c.Memory,
		Payoffs: tournament.Payoffs{
			BothCooperate:  c.BothCooperate,
			BothDefect:     c.BothDefect,
			DefectorGain:   c.DefectorGain,
			CooperatorLoss: c.CooperatorLoss,
		},
	}
}

// Run executes the simulate command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := log.New(errOut, "", 0)
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceSimulate, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		sim, err := NewSimulation(cfg, logger)
		if err != nil {
			return err
		}
		defer sim.Close()

		if err := sim.Run(ctx); err != nil {
			return err
		}
		return sim.Report(out)
	})
}

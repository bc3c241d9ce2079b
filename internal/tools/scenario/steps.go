package scenario

import (
	"context"
	"fmt"
	"slices"
	"strings"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/report"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/strategy"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/tournament"
)

const (
	stepConfig       = "config"
	stepPlayer       = "player"
	stepRandomPlayer = "random_player"
	stepMatch        = "match"
	stepRound        = "round"
	stepExpect       = "expect"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case stepConfig:
		return r.runConfigStep(state, step.Args)
	case stepPlayer:
		return r.runPlayerStep(state, step.Args)
	case stepRandomPlayer:
		return r.runRandomPlayerStep(state, step.Args)
	case stepMatch:
		return r.runMatchStep(state, step.Args)
	case stepRound:
		return r.runRoundStep(ctx, state, step.Args)
	case stepExpect:
		return r.runExpectStep(state, step.Args)
	default:
		return fmt.Errorf("unknown step kind: %s", step.Kind)
	}
}

func (r *Runner) runConfigStep(state *scenarioState, args map[string]any) error {
	cfg := state.config
	fields := []struct {
		key    string
		target *int
	}{
		{"rounds", &cfg.RoundsPerGame},
		{"memory", &cfg.Memory},
		{"both_cooperate", &cfg.Payoffs.BothCooperate},
		{"both_defect", &cfg.Payoffs.BothDefect},
		{"defector_gain", &cfg.Payoffs.DefectorGain},
		{"cooperator_loss", &cfg.Payoffs.CooperatorLoss},
	}
	for _, field := range fields {
		value, err := optionalInt(args, field.key, *field.target)
		if err != nil {
			return err
		}
		*field.target = value
	}
	if cfg.RoundsPerGame < 1 {
		return apperrors.New(apperrors.CodeInvalidArgument, "config rounds must be positive")
	}
	state.config = cfg
	return nil
}

func (r *Runner) runPlayerStep(state *scenarioState, args map[string]any) error {
	name := requiredString(args, "name")
	if name == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "player name is required")
	}

	var s strategy.Strategy
	if fill, ok := readFloat(args, "fill"); ok {
		s = strategy.Constant(state.config.RoundsPerGame, fill)
	} else {
		opponent, err := readTable(args, "opponent")
		if err != nil {
			return fmt.Errorf("player %s: %w", name, err)
		}
		self, err := readTable(args, "self")
		if err != nil {
			return fmt.Errorf("player %s: %w", name, err)
		}
		s = strategy.Strategy{Opponent: opponent, Self: self}
	}
	return state.addPlayer(tournament.NewPlayer(name, s))
}

func (r *Runner) runRandomPlayerStep(state *scenarioState, args map[string]any) error {
	name := requiredString(args, "name")
	if name == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "player name is required")
	}
	magnitude := optionalFloat(args, "magnitude", 1.0)
	s, err := strategy.NewRandom(r.rng, state.config.RoundsPerGame, magnitude)
	if err != nil {
		return fmt.Errorf("player %s: %w", name, err)
	}
	return state.addPlayer(tournament.NewPlayer(name, s))
}

func (r *Runner) runMatchStep(state *scenarioState, args map[string]any) error {
	a, err := state.player(requiredString(args, "a"))
	if err != nil {
		return err
	}
	b, err := state.player(requiredString(args, "b"))
	if err != nil {
		return err
	}
	games, err := optionalInt(args, "games", 1)
	if err != nil {
		return err
	}
	if games < 1 {
		return apperrors.New(apperrors.CodeInvalidArgument, "match games must be positive")
	}

	engine, err := tournament.NewEngine(state.config, r.rng)
	if err != nil {
		return err
	}
	if optionalBool(args, "narrate", false) {
		engine = engine.WithObserver(report.NewNarrator(r.logger))
	}
	for game := 0; game < games; game++ {
		res, err := engine.RunMatch(a, b)
		if err != nil {
			return fmt.Errorf("game %d: %w", game+1, err)
		}
		r.logf("%s %d - %d %s (%s)", a.Name, res.ScoreA, res.ScoreB, b.Name, res.Verdict)
	}
	return nil
}

func (r *Runner) runRoundStep(ctx context.Context, state *scenarioState, args map[string]any) error {
	games, err := optionalInt(args, "games", 1)
	if err != nil {
		return err
	}
	engine, err := tournament.NewEngine(state.config, r.rng)
	if err != nil {
		return err
	}
	summary, err := engine.RunRound(ctx, state.players, games)
	if err != nil {
		return err
	}
	r.logf("round robin: %d pairs, %d matches", summary.Pairs, summary.Matches)
	return nil
}

// expectKeys lists the scoreboard fields an expect step can check, in report
// order.
var expectKeys = []string{"score", "wins", "losses", "draws", "matches"}

func (r *Runner) runExpectStep(state *scenarioState, args map[string]any) error {
	name := requiredString(args, "name")
	want, err := readExpectations(args)
	if err != nil {
		return fmt.Errorf("expect %s: %w", name, err)
	}
	p, err := state.player(name)
	if err != nil {
		return err
	}
	board := p.Scoreboard()
	got := map[string]int{
		"score":   board.Score,
		"wins":    board.Wins,
		"losses":  board.Losses,
		"draws":   board.Draws,
		"matches": board.Matches(),
	}
	var mismatches []string
	for _, key := range expectKeys {
		value, ok := want[key]
		if !ok || value == got[key] {
			continue
		}
		mismatches = append(mismatches, fmt.Sprintf("%s = %d, want %d", key, got[key], value))
	}
	if len(mismatches) == 0 {
		return nil
	}
	return r.assertions.Failf("%s: %s", name, strings.Join(mismatches, "; "))
}

// readExpectations validates an expect table: every key must be a known
// scoreboard field holding an integer, and at least one must be present.
func readExpectations(args map[string]any) (map[string]int, error) {
	want := make(map[string]int, len(args))
	for key, value := range args {
		if key == "name" {
			continue
		}
		if !slices.Contains(expectKeys, key) {
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
				fmt.Sprintf("unknown expectation %q (want one of %s)", key, strings.Join(expectKeys, ", ")),
				map[string]string{"key": key})
		}
		number, ok := value.(int)
		if !ok {
			return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
				fmt.Sprintf("expectation %s must be an integer, got %v", key, value),
				map[string]string{"key": key})
		}
		want[key] = number
	}
	if len(want) == 0 {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "expectation checks nothing")
	}
	return want, nil
}

func (s *scenarioState) addPlayer(p *tournament.Player) error {
	if _, exists := s.byName[p.Name]; exists {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "player already declared",
			map[string]string{"player": p.Name})
	}
	s.byName[p.Name] = p
	s.players = append(s.players, p)
	return nil
}

func (s *scenarioState) player(name string) (*tournament.Player, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeScenarioUnknownPlayer, fmt.Sprintf("unknown player %q", name),
			map[string]string{"player": name})
	}
	return p, nil
}

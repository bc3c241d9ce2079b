package tournament

import (
	"strconv"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/strategy"
)

// Config controls how matches are played.
type Config struct {
	// RoundsPerGame is the fixed number of rounds in every match.
	RoundsPerGame int
	// Payoffs scores each joint outcome.
	Payoffs Payoffs
	// Memory limits how many past rounds a decision looks at. Zero or
	// negative means the whole match history.
	Memory int
}

// Engine plays matches sequentially from one shared random stream. Decisions
// are drawn side A first, then side B, every round, so a seeded stream
// reproduces a run exactly.
type Engine struct {
	cfg      Config
	src      strategy.Source
	observer Observer
}

// NewEngine validates cfg and returns an engine drawing from src.
func NewEngine(cfg Config, src strategy.Source) (*Engine, error) {
	if cfg.RoundsPerGame < 1 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "rounds per game must be positive",
			map[string]string{"rounds": strconv.Itoa(cfg.RoundsPerGame)})
	}
	if src == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "random source is required")
	}
	return &Engine{cfg: cfg, src: src, observer: NopObserver{}}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// WithObserver returns an engine that shares e's configuration and random
// stream and reports progress to o. A nil o disables reporting.
func (e *Engine) WithObserver(o Observer) *Engine {
	if o == nil {
		o = NopObserver{}
	}
	clone := *e
	clone.observer = o
	return &clone
}

// requiredRows is the number of weight table rows a strategy needs to cover
// every decision in a match.
func (e *Engine) requiredRows() int {
	rows := e.cfg.RoundsPerGame - 1
	if e.cfg.Memory > 0 && e.cfg.Memory < rows {
		rows = e.cfg.Memory
	}
	return max(rows, 1)
}

func (e *Engine) validatePlayer(p *Player) error {
	if p == nil {
		return apperrors.New(apperrors.CodeInvalidArgument, "player is required")
	}
	if rows, need := p.Strategy.Rows(), e.requiredRows(); rows < need {
		return apperrors.WithMetadata(apperrors.CodeWeightTableShort, "weight tables too short for match length",
			map[string]string{
				"player": p.Name,
				"rows":   strconv.Itoa(rows),
				"need":   strconv.Itoa(need),
			})
	}
	return nil
}

package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/id"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/otel"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/random"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/report"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/storage"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/storage/sqlite"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/tournament"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
)

// Simulation is one configured run: a seeded population, the engine that
// plays it and an optional results ledger.
type Simulation struct {
	cfg     Config
	logger  *log.Logger
	seed    int64
	runID   string
	players []*tournament.Player
	engine  *tournament.Engine
	ledger  storage.ResultStore
	closer  io.Closer
	last    []storage.Standing

	recorded bool
	passes   int
}

// NewSimulation samples the population and prepares the engine. When
// cfg.DBPath is set the SQLite ledger is opened as well.
func NewSimulation(cfg Config, logger *log.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	seed, err := random.Resolve(cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	rng := random.New(seed)

	players, err := tournament.NewPopulation(rng, cfg.Population, cfg.RoundsPerGame, cfg.Magnitude)
	if err != nil {
		return nil, fmt.Errorf("population: %w", err)
	}
	engine, err := newEngine(cfg, rng, logger)
	if err != nil {
		return nil, err
	}
	runID, err := id.NewID()
	if err != nil {
		return nil, err
	}

	return &Simulation{
		cfg:     cfg,
		logger:  logger,
		seed:    seed,
		runID:   runID,
		players: players,
		engine:  engine,
	}, nil
}

func newEngine(cfg Config, rng *rand.Rand, logger *log.Logger) (*tournament.Engine, error) {
	engine, err := tournament.NewEngine(cfg.tournament(), rng)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if cfg.Narrate {
		engine = engine.WithObserver(&firstMatch{next: report.NewNarrator(logger)})
	}
	return engine, nil
}

// WithLedger records the run and every round's standings in store. It must be
// called before Run.
func (s *Simulation) WithLedger(store storage.ResultStore) *Simulation {
	s.ledger = store
	return s
}

// Seed returns the seed the population and decisions were drawn from.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// RunID identifies the run in the results ledger.
func (s *Simulation) RunID() string {
	return s.runID
}

// Players returns the population in sampling order.
func (s *Simulation) Players() []*tournament.Player {
	return s.players
}

// Standings returns the ranking after the last completed round.
func (s *Simulation) Standings() []storage.Standing {
	return s.last
}

// Close releases the ledger opened by NewSimulation.
func (s *Simulation) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Run plays cfg.Rounds round-robin passes. Scoreboards and round numbers
// accumulate across passes and across calls; the run header is recorded once.
// A failed pass leaves scoreboards as they were after the previous one.
func (s *Simulation) Run(ctx context.Context) error {
	if err := s.openLedger(ctx); err != nil {
		return err
	}
	if s.ledger != nil && !s.recorded {
		if err := s.ledger.RecordRun(ctx, s.record()); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		s.recorded = true
	}

	tracer := otel.Tracer()
	ctx, span := tracer.Start(ctx, "simulate", trace.WithAttributes(
		attribute.String("run.id", s.runID),
		attribute.Int64("run.seed", s.seed),
		attribute.Int("run.population", len(s.players)),
		attribute.Int("run.rounds", s.cfg.Rounds),
	))
	defer span.End()

	target := s.passes + s.cfg.Rounds
	for s.passes < target {
		round := s.passes + 1
		if err := s.runRound(ctx, round, target); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("round %d: %w", round, err)
		}
		s.passes = round
	}
	return nil
}

func (s *Simulation) runRound(ctx context.Context, round, target int) error {
	ctx, span := otel.Tracer().Start(ctx, "round_robin", trace.WithAttributes(
		attribute.Int("round", round),
		attribute.Int("games_per_pair", s.cfg.GamesPerPair),
		attribute.Int("rounds_per_game", s.cfg.RoundsPerGame),
	))
	defer span.End()

	start := time.Now()
	summary, err := s.engine.RunRound(ctx, s.players, s.cfg.GamesPerPair)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(
		attribute.Int("pairs", summary.Pairs),
		attribute.Int("matches", summary.Matches),
	)
	s.last = report.Rank(s.players)
	s.logger.Printf("round %d/%d: %d matches in %s", round, target, summary.Matches, time.Since(start).Round(time.Millisecond))

	if s.ledger != nil {
		if err := s.ledger.RecordStandings(ctx, s.runID, round, s.last); err != nil {
			return fmt.Errorf("record standings: %w", err)
		}
	}
	return nil
}

// Report writes the seed, the top standings and the totals to w.
func (s *Simulation) Report(w io.Writer) error {
	tag, err := language.Parse(s.cfg.Lang)
	if err != nil {
		tag = language.English
	}
	if _, err := fmt.Fprintf(w, "run %s seed %d\n", s.runID, s.seed); err != nil {
		return err
	}
	if err := report.WriteStandings(w, s.last, s.cfg.Top, tag); err != nil {
		return err
	}
	return report.WriteSummary(w, report.Summarize(s.last), tag)
}

func (s *Simulation) openLedger(ctx context.Context) error {
	if s.ledger != nil || s.cfg.DBPath == "" {
		return nil
	}
	store, err := sqlite.Open(ctx, s.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	s.ledger = store
	s.closer = store
	return nil
}

func (s *Simulation) record() storage.Run {
	payoffs := s.engine.Config().Payoffs
	return storage.Run{
		ID:             s.runID,
		Seed:           s.seed,
		Population:     len(s.players),
		Magnitude:      s.cfg.Magnitude,
		RoundsPerGame:  s.cfg.RoundsPerGame,
		GamesPerPair:   s.cfg.GamesPerPair,
		Memory:         s.cfg.Memory,
		BothCooperate:  payoffs.BothCooperate,
		BothDefect:     payoffs.BothDefect,
		DefectorGain:   payoffs.DefectorGain,
		CooperatorLoss: payoffs.CooperatorLoss,
		StartedAt:      time.Now().UTC(),
	}
}

// firstMatch forwards events of the first match only.
type firstMatch struct {
	next tournament.Observer
	done bool
}

func (f *firstMatch) MatchStarted(info tournament.MatchInfo) {
	if !f.done {
		f.next.MatchStarted(info)
	}
}

func (f *firstMatch) RoundPlayed(evt tournament.RoundEvent) {
	if !f.done {
		f.next.RoundPlayed(evt)
	}
}

func (f *firstMatch) MatchFinished(res tournament.MatchResult) {
	if !f.done {
		f.next.MatchFinished(res)
		f.done = true
	}
}

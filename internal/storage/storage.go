package storage

import (
	"context"
	"time"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")
	// ErrAlreadyExists indicates a record was written twice.
	ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "record already exists")
)

// Run describes the parameters of one simulation run.
type Run struct {
	ID             string
	Seed           int64
	Population     int
	Magnitude      float64
	RoundsPerGame  int
	GamesPerPair   int
	Memory         int
	BothCooperate  int
	BothDefect     int
	DefectorGain   int
	CooperatorLoss int
	StartedAt      time.Time
}

// Standing is one player's ranked scoreboard after a round-robin pass.
type Standing struct {
	Rank   int
	Player string
	Score  int
	Wins   int
	Losses int
	Draws  int
}

// ResultStore records finished runs.
type ResultStore interface {
	RecordRun(ctx context.Context, run Run) error
	RecordStandings(ctx context.Context, runID string, round int, standings []Standing) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListStandings(ctx context.Context, runID string, round int) ([]Standing, error)
}

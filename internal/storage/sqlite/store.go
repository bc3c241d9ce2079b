// Package sqlite provides the SQLite-backed results ledger.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/storage/sqlitemigrate"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/storage"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists run headers and standings in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite ledger at path and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordRun inserts a run header.
func (s *Store) RecordRun(ctx context.Context, run storage.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	runID := strings.TrimSpace(run.ID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO runs (
		   id,
		   seed,
		   population,
		   magnitude,
		   rounds_per_game,
		   games_per_pair,
		   memory,
		   both_cooperate,
		   both_defect,
		   defector_gain,
		   cooperator_loss,
		   started_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		run.Seed,
		run.Population,
		run.Magnitude,
		run.RoundsPerGame,
		run.GamesPerPair,
		run.Memory,
		run.BothCooperate,
		run.BothDefect,
		run.DefectorGain,
		run.CooperatorLoss,
		toMillis(startedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// GetRun returns one run header by ID.
func (s *Store) GetRun(ctx context.Context, runID string) (storage.Run, error) {
	if err := ctx.Err(); err != nil {
		return storage.Run{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Run{}, fmt.Errorf("storage is not configured")
	}

	var (
		run       storage.Run
		startedAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, seed, population, magnitude, rounds_per_game, games_per_pair, memory,
		        both_cooperate, both_defect, defector_gain, cooperator_loss, started_at
		   FROM runs
		  WHERE id = ?`,
		strings.TrimSpace(runID),
	).Scan(
		&run.ID,
		&run.Seed,
		&run.Population,
		&run.Magnitude,
		&run.RoundsPerGame,
		&run.GamesPerPair,
		&run.Memory,
		&run.BothCooperate,
		&run.BothDefect,
		&run.DefectorGain,
		&run.CooperatorLoss,
		&startedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Run{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Run{}, fmt.Errorf("get run: %w", err)
	}
	run.StartedAt = fromMillis(startedAt)
	return run, nil
}

// RecordStandings stores the standings snapshot taken after round.
// The snapshot is written atomically.
func (s *Store) RecordStandings(ctx context.Context, runID string, round int, standings []storage.Standing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	if round < 1 {
		return fmt.Errorf("round must be positive")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin standings transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO standings (run_id, round, rank, player, score, wins, losses, draws)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare standings insert: %w", err)
	}
	defer stmt.Close()

	for _, standing := range standings {
		if _, err := stmt.ExecContext(ctx,
			runID,
			round,
			standing.Rank,
			standing.Player,
			standing.Score,
			standing.Wins,
			standing.Losses,
			standing.Draws,
		); err != nil {
			_ = tx.Rollback()
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			if isForeignKeyViolation(err) {
				return storage.ErrNotFound
			}
			return fmt.Errorf("record standing for %s: %w", standing.Player, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit standings: %w", err)
	}
	return nil
}

// ListStandings returns the snapshot taken after round, ordered by rank.
func (s *Store) ListStandings(ctx context.Context, runID string, round int) ([]storage.Standing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT rank, player, score, wins, losses, draws
		   FROM standings
		  WHERE run_id = ? AND round = ?
		  ORDER BY rank, player`,
		strings.TrimSpace(runID),
		round,
	)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}
	defer rows.Close()

	var standings []storage.Standing
	for rows.Next() {
		var standing storage.Standing
		if err := rows.Scan(
			&standing.Rank,
			&standing.Player,
			&standing.Score,
			&standing.Wins,
			&standing.Losses,
			&standing.Draws,
		); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		standings = append(standings, standing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate standings: %w", err)
	}
	return standings, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

var _ storage.ResultStore = (*Store)(nil)

package tournament

import (
	"fmt"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/strategy"
)

// MatchResult is the outcome of one match.
type MatchResult struct {
	A        string
	B        string
	ScoreA   int
	ScoreB   int
	HistoryA strategy.History
	HistoryB strategy.History
	Verdict  Verdict
}

// RunMatch plays exactly RoundsPerGame rounds between a and b and records the
// result on both scoreboards. On error neither scoreboard changes.
func (e *Engine) RunMatch(a, b *Player) (MatchResult, error) {
	if err := e.validatePair(a, b); err != nil {
		return MatchResult{}, err
	}
	res, err := e.play(a, b)
	if err != nil {
		return MatchResult{}, err
	}
	settle(a, b, res)
	return res, nil
}

func (e *Engine) validatePair(a, b *Player) error {
	if err := e.validatePlayer(a); err != nil {
		return err
	}
	if err := e.validatePlayer(b); err != nil {
		return err
	}
	if a == b {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "player cannot play itself",
			map[string]string{"player": a.Name})
	}
	return nil
}

func (e *Engine) play(a, b *Player) (MatchResult, error) {
	res := MatchResult{A: a.Name, B: b.Name}
	e.observer.MatchStarted(MatchInfo{A: a.Name, B: b.Name, Rounds: e.cfg.RoundsPerGame})

	for round := 1; round <= e.cfg.RoundsPerGame; round++ {
		moveA, err := a.Strategy.Decide(res.HistoryA, res.HistoryB, e.cfg.Memory, e.src)
		if err != nil {
			return MatchResult{}, fmt.Errorf("round %d: decide for %s: %w", round, a.Name, err)
		}
		moveB, err := b.Strategy.Decide(res.HistoryB, res.HistoryA, e.cfg.Memory, e.src)
		if err != nil {
			return MatchResult{}, fmt.Errorf("round %d: decide for %s: %w", round, b.Name, err)
		}

		res.ScoreA += e.cfg.Payoffs.Score(moveA, moveB)
		res.ScoreB += e.cfg.Payoffs.Score(moveB, moveA)
		res.HistoryA.Append(moveA)
		res.HistoryB.Append(moveB)

		e.observer.RoundPlayed(RoundEvent{
			Round:    round,
			MoveA:    moveA,
			MoveB:    moveB,
			ScoreA:   res.ScoreA,
			ScoreB:   res.ScoreB,
			HistoryA: res.HistoryA.Recent(0),
			HistoryB: res.HistoryB.Recent(0),
		})
	}

	res.Verdict = judge(res.ScoreA, res.ScoreB)
	e.observer.MatchFinished(MatchResult{
		A:        res.A,
		B:        res.B,
		ScoreA:   res.ScoreA,
		ScoreB:   res.ScoreB,
		HistoryA: res.HistoryA.Recent(0),
		HistoryB: res.HistoryB.Recent(0),
		Verdict:  res.Verdict,
	})
	return res, nil
}

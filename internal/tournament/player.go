package tournament

import (
	"fmt"
	"strconv"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/strategy"
)

// Player pairs a fixed strategy with the scoreboard the engine maintains.
type Player struct {
	Name     string
	Strategy strategy.Strategy

	board Scoreboard
}

// NewPlayer creates a player with an empty scoreboard.
func NewPlayer(name string, s strategy.Strategy) *Player {
	return &Player{Name: name, Strategy: s}
}

// Scoreboard returns a copy of the player's running totals.
func (p *Player) Scoreboard() Scoreboard {
	return p.board
}

// NewPopulation samples size players with weights in [-magnitude, magnitude)
// for matches of rounds rounds. Players are named p1..pN in sampling order.
func NewPopulation(src strategy.Source, size, rounds int, magnitude float64) ([]*Player, error) {
	if size < 0 {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "population size must be non-negative",
			map[string]string{"size": strconv.Itoa(size)})
	}
	players := make([]*Player, 0, size)
	for i := 0; i < size; i++ {
		s, err := strategy.NewRandom(src, rounds, magnitude)
		if err != nil {
			return nil, fmt.Errorf("sample player %d: %w", i+1, err)
		}
		players = append(players, NewPlayer("p"+strconv.Itoa(i+1), s))
	}
	return players, nil
}

// settle folds a finished match into both scoreboards.
func settle(a, b *Player, res MatchResult) {
	switch res.Verdict {
	case VerdictAWins:
		a.board.record(res.ScoreA, resultWin)
		b.board.record(res.ScoreB, resultLoss)
	case VerdictBWins:
		a.board.record(res.ScoreA, resultLoss)
		b.board.record(res.ScoreB, resultWin)
	default:
		a.board.record(res.ScoreA, resultDraw)
		b.board.record(res.ScoreB, resultDraw)
	}
}

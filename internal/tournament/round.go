package tournament

import (
	"context"
	"fmt"
	"strconv"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
)

// Pair indexes two distinct players of a population, A < B.
type Pair struct {
	A int
	B int
}

// Pairs lists every unordered pair of n players in lexicographic order.
func Pairs(n int) []Pair {
	if n < 2 {
		return nil
	}
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{A: i, B: j})
		}
	}
	return pairs
}

// RoundSummary counts the work done by one round-robin pass.
type RoundSummary struct {
	Pairs   int
	Matches int
}

// RunRound plays games matches for every unique pair of players. Scoreboards
// keep accumulating across calls. If the round fails, including through ctx
// cancellation between matches, every scoreboard is restored to its value
// before the round.
func (e *Engine) RunRound(ctx context.Context, players []*Player, games int) (RoundSummary, error) {
	if err := e.validateRound(players, games); err != nil {
		return RoundSummary{}, err
	}

	before := make([]Scoreboard, len(players))
	for i, p := range players {
		before[i] = p.board
	}
	restore := func() {
		for i, p := range players {
			p.board = before[i]
		}
	}

	pairs := Pairs(len(players))
	summary := RoundSummary{Pairs: len(pairs)}
	for _, pair := range pairs {
		a, b := players[pair.A], players[pair.B]
		for game := 0; game < games; game++ {
			if err := ctx.Err(); err != nil {
				restore()
				return RoundSummary{}, err
			}
			if _, err := e.RunMatch(a, b); err != nil {
				restore()
				return RoundSummary{}, fmt.Errorf("%s vs %s game %d: %w", a.Name, b.Name, game+1, err)
			}
			summary.Matches++
		}
	}
	return summary, nil
}

func (e *Engine) validateRound(players []*Player, games int) error {
	if len(players) < 2 {
		return apperrors.WithMetadata(apperrors.CodePopulationTooSmall, "round robin needs at least two players",
			map[string]string{"players": strconv.Itoa(len(players))})
	}
	if games < 1 {
		return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "games per pair must be positive",
			map[string]string{"games": strconv.Itoa(games)})
	}
	seen := make(map[*Player]struct{}, len(players))
	for i, p := range players {
		if err := e.validatePlayer(p); err != nil {
			return fmt.Errorf("player %d: %w", i+1, err)
		}
		if _, dup := seen[p]; dup {
			return apperrors.WithMetadata(apperrors.CodeInvalidArgument, "player listed twice",
				map[string]string{"player": p.Name})
		}
		seen[p] = struct{}{}
	}
	return nil
}

package report

import (
	"log"

	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/strategy"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/tournament"
)

// Narrator tells a match round by round. It only writes; the engine's
// behavior is identical with or without it.
type Narrator struct {
	logger *log.Logger
	a, b   string
}

// NewNarrator writes narration to logger.
func NewNarrator(logger *log.Logger) *Narrator {
	return &Narrator{logger: logger}
}

// MatchStarted prints the match banner.
func (n *Narrator) MatchStarted(info tournament.MatchInfo) {
	n.a, n.b = info.A, info.B
	n.printf("-----Simulating a match between %s and %s (%d rounds)-----", info.A, info.B, info.Rounds)
}

// RoundPlayed prints both moves with the histories and running scores.
func (n *Narrator) RoundPlayed(evt tournament.RoundEvent) {
	n.printf("Round %d", evt.Round)
	switch {
	case evt.MoveA == strategy.Cooperate && evt.MoveB == strategy.Cooperate:
		n.printf("%s and %s both cooperate", n.a, n.b)
	case evt.MoveA == strategy.Defect && evt.MoveB == strategy.Cooperate:
		n.printf("%s defects, %s cooperates!", n.a, n.b)
	case evt.MoveA == strategy.Cooperate && evt.MoveB == strategy.Defect:
		n.printf("%s cooperates, %s defects!", n.a, n.b)
	default:
		n.printf("%s and %s both defect!", n.a, n.b)
	}
	n.printf("%s: %s - Total Score: %d", n.a, evt.HistoryA, evt.ScoreA)
	n.printf("%s: %s - Total Score: %d", n.b, evt.HistoryB, evt.ScoreB)
	n.printf("")
}

// MatchFinished prints the verdict.
func (n *Narrator) MatchFinished(res tournament.MatchResult) {
	switch res.Verdict {
	case tournament.VerdictAWins:
		n.printf("%s wins %d to %d!", res.A, res.ScoreA, res.ScoreB)
	case tournament.VerdictBWins:
		n.printf("%s wins %d to %d!", res.B, res.ScoreB, res.ScoreA)
	default:
		n.printf("It's a draw at %d!", res.ScoreA)
	}
	n.printf("")
}

func (n *Narrator) printf(format string, args ...any) {
	if n == nil || n.logger == nil {
		return
	}
	n.logger.Printf(format, args...)
}

var _ tournament.Observer = (*Narrator)(nil)

package tournament

import "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/strategy"

// MatchInfo identifies a match as it starts.
type MatchInfo struct {
	A      string
	B      string
	Rounds int
}

// RoundEvent reports one finished round. Histories include the round's moves.
type RoundEvent struct {
	Round    int // 1-based
	MoveA    strategy.Move
	MoveB    strategy.Move
	ScoreA   int // running match score
	ScoreB   int
	HistoryA strategy.History
	HistoryB strategy.History
}

// Observer receives match progress. Observers get copies of engine state and
// cannot alter the outcome.
type Observer interface {
	MatchStarted(MatchInfo)
	RoundPlayed(RoundEvent)
	MatchFinished(MatchResult)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) MatchStarted(MatchInfo)    {}
func (NopObserver) RoundPlayed(RoundEvent)    {}
func (NopObserver) MatchFinished(MatchResult) {}

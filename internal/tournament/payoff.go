// Package tournament runs Prisoner's Dilemma matches between players and
// round-robin passes across a population, folding every finished match into
// the players' scoreboards.
package tournament

import "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/strategy"

// Payoffs holds the reward for each joint outcome, seen from one side.
type Payoffs struct {
	// BothCooperate is awarded to each side when both cooperate.
	BothCooperate int
	// BothDefect is awarded to each side when both defect.
	BothDefect int
	// DefectorGain is awarded to a side that defects against a cooperator.
	DefectorGain int
	// CooperatorLoss is awarded to a side that cooperates against a defector.
	CooperatorLoss int
}

// DefaultPayoffs returns the classic 3/1/5/0 payoff matrix.
func DefaultPayoffs() Payoffs {
	return Payoffs{
		BothCooperate:  3,
		BothDefect:     1,
		DefectorGain:   5,
		CooperatorLoss: 0,
	}
}

// Score returns the payoff for a side that played self against other.
func (p Payoffs) Score(self, other strategy.Move) int {
	switch {
	case self == strategy.Cooperate && other == strategy.Cooperate:
		return p.BothCooperate
	case self == strategy.Defect && other == strategy.Defect:
		return p.BothDefect
	case self == strategy.Defect:
		return p.DefectorGain
	default:
		return p.CooperatorLoss
	}
}

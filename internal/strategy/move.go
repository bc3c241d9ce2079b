// Package strategy implements the history-conditioned stochastic policy used by
// every player in the population.
//
// A strategy is plain data: two weight tables indexed by how many rounds ago a
// move was played and which move it was. Decide averages the weights selected by
// the match history and compares the mean against one uniform draw. The mean is
// deliberately left unclamped, so tables whose weights sit outside [0, 1] yield
// players that always cooperate or always defect.
package strategy

// Move is a single Prisoner's Dilemma choice. The zero value cooperates.
type Move bool

const (
	// Cooperate is the conciliatory move.
	Cooperate Move = false
	// Defect is the adversarial move.
	Defect Move = true
)

// Index returns the weight table column for the move: 0 cooperate, 1 defect.
func (m Move) Index() int {
	if m == Defect {
		return 1
	}
	return 0
}

// Digit returns '0' for cooperate and '1' for defect.
func (m Move) Digit() byte {
	return byte('0' + m.Index())
}

func (m Move) String() string {
	if m == Defect {
		return "defect"
	}
	return "cooperate"
}

package strategy

import (
	"fmt"
	"math"
	"strconv"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
)

// Source is the uniform random stream consumed by sampling and decisions.
// *math/rand.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// Table holds one weight per (round offset, move) pair. Row i is used for the
// move played i+1 rounds ago; row 0 also provides the opening baseline.
type Table struct {
	rows [][2]float64
}

// NewTable copies rows into a table.
func NewTable(rows [][2]float64) Table {
	return Table{rows: append([][2]float64(nil), rows...)}
}

// FillTable returns a table of the given size with every weight set to value.
func FillTable(rows int, value float64) Table {
	t := Table{rows: make([][2]float64, rows)}
	for i := range t.rows {
		t.rows[i] = [2]float64{value, value}
	}
	return t
}

// RandomTable samples every weight uniformly from [-magnitude, magnitude).
func RandomTable(src Source, rows int, magnitude float64) Table {
	t := Table{rows: make([][2]float64, rows)}
	for i := range t.rows {
		for j := range t.rows[i] {
			t.rows[i][j] = -magnitude + 2*magnitude*src.Float64()
		}
	}
	return t
}

// Rows returns the number of round offsets covered by the table.
func (t Table) Rows() int {
	return len(t.rows)
}

// At returns the weight for the move played at the given offset row.
// It panics when row is out of range, like a slice index.
func (t Table) At(row int, m Move) float64 {
	return t.rows[row][m.Index()]
}

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	return NewTable(t.rows)
}

// Equal reports whether both tables hold identical weights.
func (t Table) Equal(other Table) bool {
	if len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.rows {
		if t.rows[i] != other.rows[i] {
			return false
		}
	}
	return true
}

// Strategy is the complete policy of one player.
type Strategy struct {
	// Opponent weights are selected by the opponent's past moves.
	Opponent Table
	// Self weights are selected by the player's own past moves.
	Self Table
}

// NewRandom samples both tables for a player in a match of rounds rounds.
// The opponent table is sampled before the self table.
func NewRandom(src Source, rounds int, magnitude float64) (Strategy, error) {
	if rounds < 1 {
		return Strategy{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			"rounds per game must be positive", map[string]string{"rounds": strconv.Itoa(rounds)})
	}
	if magnitude < 0 || math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return Strategy{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("weight magnitude must be finite and non-negative, got %v", magnitude),
			map[string]string{"magnitude": strconv.FormatFloat(magnitude, 'g', -1, 64)})
	}
	if src == nil {
		return Strategy{}, apperrors.New(apperrors.CodeInvalidArgument, "random source is required")
	}
	opponent := RandomTable(src, rounds, magnitude)
	self := RandomTable(src, rounds, magnitude)
	return Strategy{Opponent: opponent, Self: self}, nil
}

// Constant returns a strategy whose every weight equals value. Values >= 1
// always cooperate and values < 0 always defect.
func Constant(rounds int, value float64) Strategy {
	return Strategy{
		Opponent: FillTable(rounds, value),
		Self:     FillTable(rounds, value),
	}
}

// Rows returns the number of rounds both tables can serve.
func (s Strategy) Rows() int {
	return min(s.Opponent.Rows(), s.Self.Rows())
}

// Clone returns a deep copy of the strategy.
func (s Strategy) Clone() Strategy {
	return Strategy{Opponent: s.Opponent.Clone(), Self: s.Self.Clone()}
}

// Equal reports whether both strategies hold identical weights.
func (s Strategy) Equal(other Strategy) bool {
	return s.Opponent.Equal(other.Opponent) && s.Self.Equal(other.Self)
}

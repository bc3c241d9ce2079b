package strategy

import (
	"strconv"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
)

var (
	// ErrHistoryMismatch reports own and opponent histories of different lengths.
	ErrHistoryMismatch = apperrors.New(apperrors.CodeHistoryMismatch, "histories differ in length")
	// ErrHistoryTooLong reports a history with more rounds than the tables cover.
	ErrHistoryTooLong = apperrors.New(apperrors.CodeHistoryTooLong, "history exceeds weight table rows")
)

// Odds returns the unclamped cooperation threshold for the next move.
//
// The samples are Opponent[0][Cooperate] and Self[0][Cooperate] as the opening
// baseline, then for every k in [1, n], with n the (possibly truncated) history
// length, Opponent[k-1][opponent k rounds ago] and Self[k-1][own k rounds ago].
// Odds is the mean of all 2n+2 samples.
//
// memory > 0 keeps only the most recent memory moves of each history.
func (s Strategy) Odds(own, opponent History, memory int) (float64, error) {
	if own.Len() != opponent.Len() {
		return 0, apperrors.WithMetadata(apperrors.CodeHistoryMismatch, ErrHistoryMismatch.Message, map[string]string{
			"own":      strconv.Itoa(own.Len()),
			"opponent": strconv.Itoa(opponent.Len()),
		})
	}
	if memory > 0 {
		own = own.Recent(memory)
		opponent = opponent.Recent(memory)
	}
	n := own.Len()
	if rows := s.Rows(); rows == 0 || n > rows {
		return 0, apperrors.WithMetadata(apperrors.CodeHistoryTooLong, ErrHistoryTooLong.Message, map[string]string{
			"history": strconv.Itoa(n),
			"rows":    strconv.Itoa(rows),
		})
	}

	sum := s.Opponent.At(0, Cooperate) + s.Self.At(0, Cooperate)
	for k := 1; k <= n; k++ {
		theirs, _ := opponent.Ago(k)
		mine, _ := own.Ago(k)
		sum += s.Opponent.At(k-1, theirs)
		sum += s.Self.At(k-1, mine)
	}
	return sum / float64(2*n+2), nil
}

// Decide draws the next move. It consumes exactly one value from src and
// cooperates when that value is <= Odds, otherwise it defects. Invalid
// histories return an error without consuming a draw.
func (s Strategy) Decide(own, opponent History, memory int, src Source) (Move, error) {
	odds, err := s.Odds(own, opponent, memory)
	if err != nil {
		return Defect, err
	}
	if src.Float64() <= odds {
		return Cooperate, nil
	}
	return Defect, nil
}

package strategy

import "strings"

// History is the append-only sequence of moves one side played in a match.
// Index 0 is the first round.
type History struct {
	moves []Move
}

// HistoryOf builds a history from moves in play order.
func HistoryOf(moves ...Move) History {
	return History{moves: append([]Move(nil), moves...)}
}

// Append records the move played in the latest round.
func (h *History) Append(m Move) {
	h.moves = append(h.moves, m)
}

// Len returns the number of rounds recorded.
func (h History) Len() int {
	return len(h.moves)
}

// Ago returns the move played k rounds ago, where k = 1 is the most recent
// round. ok is false when k is outside [1, Len].
func (h History) Ago(k int) (m Move, ok bool) {
	if k < 1 || k > len(h.moves) {
		return Cooperate, false
	}
	return h.moves[len(h.moves)-k], true
}

// Recent returns a copy holding only the most recent n moves. n <= 0 or
// n >= Len returns a copy of the whole history.
func (h History) Recent(n int) History {
	if n <= 0 || n >= len(h.moves) {
		return HistoryOf(h.moves...)
	}
	return HistoryOf(h.moves[len(h.moves)-n:]...)
}

// Moves returns a copy of the recorded moves in play order.
func (h History) Moves() []Move {
	return append([]Move(nil), h.moves...)
}

// Defections counts the rounds in which the side defected.
func (h History) Defections() int {
	count := 0
	for _, m := range h.moves {
		if m == Defect {
			count++
		}
	}
	return count
}

// String renders the history as 0/1 digits, oldest first.
func (h History) String() string {
	var b strings.Builder
	b.Grow(len(h.moves))
	for _, m := range h.moves {
		b.WriteByte(m.Digit())
	}
	return b.String()
}

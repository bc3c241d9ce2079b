package tournament

// Verdict is the outcome of a finished match from the engine's point of view.
type Verdict int

const (
	// VerdictDraw means both sides finished with equal match scores.
	VerdictDraw Verdict = iota
	// VerdictAWins means the first side finished strictly ahead.
	VerdictAWins
	// VerdictBWins means the second side finished strictly ahead.
	VerdictBWins
)

func (v Verdict) String() string {
	switch v {
	case VerdictDraw:
		return "draw"
	case VerdictAWins:
		return "a wins"
	case VerdictBWins:
		return "b wins"
	default:
		return "unknown"
	}
}

// judge compares final match scores strictly.
func judge(scoreA, scoreB int) Verdict {
	switch {
	case scoreA > scoreB:
		return VerdictAWins
	case scoreA < scoreB:
		return VerdictBWins
	default:
		return VerdictDraw
	}
}

// Scoreboard is a player's running totals. Score may go negative when payoffs
// are negative; the counters only grow.
type Scoreboard struct {
	Score  int
	Wins   int
	Losses int
	Draws  int
}

// Matches returns the number of matches the scoreboard has recorded.
func (s Scoreboard) Matches() int {
	return s.Wins + s.Losses + s.Draws
}

type result int

const (
	resultDraw result = iota
	resultWin
	resultLoss
)

func (s *Scoreboard) record(matchScore int, r result) {
	s.Score += matchScore
	switch r {
	case resultWin:
		s.Wins++
	case resultLoss:
		s.Losses++
	default:
		s.Draws++
	}
}

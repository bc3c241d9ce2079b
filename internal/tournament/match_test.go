package tournament

import (
	"errors"
	"math/rand"
	"testing"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/strategy"
)

// scriptedSource replays draws in order and counts consumption.
type scriptedSource struct {
	values []float64
	draws  int
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[s.draws%len(s.values)]
	s.draws++
	return v
}

func newTestEngine(t *testing.T, rounds int, src strategy.Source) *Engine {
	t.Helper()
	engine, err := NewEngine(Config{RoundsPerGame: rounds, Payoffs: DefaultPayoffs()}, src)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestPayoffsScore(t *testing.T) {
	t.Parallel()

	p := Payoffs{BothCooperate: 3, BothDefect: 1, DefectorGain: 5, CooperatorLoss: -2}
	tests := []struct {
		self, other strategy.Move
		want        int
	}{
		{strategy.Cooperate, strategy.Cooperate, 3},
		{strategy.Defect, strategy.Defect, 1},
		{strategy.Defect, strategy.Cooperate, 5},
		{strategy.Cooperate, strategy.Defect, -2},
	}
	for _, tc := range tests {
		if got := p.Score(tc.self, tc.other); got != tc.want {
			t.Fatalf("Score(%v, %v) = %d, want %d", tc.self, tc.other, got, tc.want)
		}
	}
}

func TestRunMatchForcedCooperatorAgainstDefector(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, 5, rand.New(rand.NewSource(1)))
	dove := NewPlayer("dove", strategy.Constant(5, 1))
	hawk := NewPlayer("hawk", strategy.Constant(5, -1))

	res, err := engine.RunMatch(dove, hawk)
	if err != nil {
		t.Fatalf("run match: %v", err)
	}
	if res.ScoreA != 0 || res.ScoreB != 25 {
		t.Fatalf("scores = %d/%d, want 0/25", res.ScoreA, res.ScoreB)
	}
	if res.Verdict != VerdictBWins {
		t.Fatalf("verdict = %v, want %v", res.Verdict, VerdictBWins)
	}
	if got := res.HistoryA.String(); got != "00000" {
		t.Fatalf("dove history = %q, want 00000", got)
	}
	if got := res.HistoryB.String(); got != "11111" {
		t.Fatalf("hawk history = %q, want 11111", got)
	}

	if got, want := dove.Scoreboard(), (Scoreboard{Score: 0, Losses: 1}); got != want {
		t.Fatalf("dove scoreboard = %+v, want %+v", got, want)
	}
	if got, want := hawk.Scoreboard(), (Scoreboard{Score: 25, Wins: 1}); got != want {
		t.Fatalf("hawk scoreboard = %+v, want %+v", got, want)
	}
}

func TestRunMatchDefectorWinsWheneverGainExceedsLoss(t *testing.T) {
	t.Parallel()

	for _, payoffs := range []Payoffs{
		{BothCooperate: 3, BothDefect: 1, DefectorGain: 5, CooperatorLoss: 0},
		{BothCooperate: 0, BothDefect: 0, DefectorGain: -1, CooperatorLoss: -4},
	} {
		engine, err := NewEngine(Config{RoundsPerGame: 7, Payoffs: payoffs}, rand.New(rand.NewSource(2)))
		if err != nil {
			t.Fatalf("new engine: %v", err)
		}
		dove := NewPlayer("dove", strategy.Constant(7, 2))
		hawk := NewPlayer("hawk", strategy.Constant(7, -0.5))

		res, err := engine.RunMatch(hawk, dove)
		if err != nil {
			t.Fatalf("run match: %v", err)
		}
		if res.ScoreA != 7*payoffs.DefectorGain || res.ScoreB != 7*payoffs.CooperatorLoss {
			t.Fatalf("scores = %d/%d, want %d/%d", res.ScoreA, res.ScoreB, 7*payoffs.DefectorGain, 7*payoffs.CooperatorLoss)
		}
		if res.Verdict != VerdictAWins {
			t.Fatalf("verdict = %v, want %v", res.Verdict, VerdictAWins)
		}
	}
}

func TestRunMatchHistoriesHaveRoundsEntries(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(99))
	engine := newTestEngine(t, 12, rng)
	players, err := NewPopulation(rng, 2, 12, 1)
	if err != nil {
		t.Fatalf("new population: %v", err)
	}

	res, err := engine.RunMatch(players[0], players[1])
	if err != nil {
		t.Fatalf("run match: %v", err)
	}
	if res.HistoryA.Len() != 12 || res.HistoryB.Len() != 12 {
		t.Fatalf("history lengths = %d/%d, want 12/12", res.HistoryA.Len(), res.HistoryB.Len())
	}
	if got := players[0].Scoreboard().Matches() + players[1].Scoreboard().Matches(); got != 2 {
		t.Fatalf("recorded outcomes = %d, want 2", got)
	}
}

func TestRunMatchConsumesTwoDrawsPerRound(t *testing.T) {
	t.Parallel()

	src := &scriptedSource{values: []float64{0.5}}
	engine := newTestEngine(t, 4, src)
	a := NewPlayer("a", strategy.Constant(4, 0.5))
	b := NewPlayer("b", strategy.Constant(4, 0.5))

	if _, err := engine.RunMatch(a, b); err != nil {
		t.Fatalf("run match: %v", err)
	}
	if src.draws != 8 {
		t.Fatalf("draws = %d, want 8", src.draws)
	}
}

func TestRunMatchSwappedSidesMirrorOutcome(t *testing.T) {
	t.Parallel()

	// Draws alternate A, B each round. Swapping the player order and the
	// per-round draw order must mirror the result.
	forward := []float64{0.1, 0.9, 0.9, 0.1, 0.4, 0.6, 0.2, 0.3}
	swapped := []float64{0.9, 0.1, 0.1, 0.9, 0.6, 0.4, 0.3, 0.2}

	x := strategy.Strategy{
		Opponent: strategy.NewTable([][2]float64{{0.5, 0.2}, {0.7, 0.1}, {0.6, 0.3}, {0.5, 0.5}}),
		Self:     strategy.NewTable([][2]float64{{0.5, 0.4}, {0.2, 0.8}, {0.3, 0.3}, {0.5, 0.5}}),
	}
	y := strategy.Constant(4, 0.5)

	first, err := newTestEngine(t, 4, &scriptedSource{values: forward}).RunMatch(NewPlayer("x", x), NewPlayer("y", y))
	if err != nil {
		t.Fatalf("run match: %v", err)
	}
	second, err := newTestEngine(t, 4, &scriptedSource{values: swapped}).RunMatch(NewPlayer("y", y), NewPlayer("x", x))
	if err != nil {
		t.Fatalf("run swapped match: %v", err)
	}

	if first.ScoreA != second.ScoreB || first.ScoreB != second.ScoreA {
		t.Fatalf("scores %d/%d vs swapped %d/%d", first.ScoreA, first.ScoreB, second.ScoreA, second.ScoreB)
	}
	if first.HistoryA.String() != second.HistoryB.String() || first.HistoryB.String() != second.HistoryA.String() {
		t.Fatalf("histories %s/%s vs swapped %s/%s", first.HistoryA, first.HistoryB, second.HistoryA, second.HistoryB)
	}
	mirror := map[Verdict]Verdict{VerdictAWins: VerdictBWins, VerdictBWins: VerdictAWins, VerdictDraw: VerdictDraw}
	if mirror[first.Verdict] != second.Verdict {
		t.Fatalf("verdict %v vs swapped %v", first.Verdict, second.Verdict)
	}
}

func TestRunMatchIdenticalPlayersDraw(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, 3, rand.New(rand.NewSource(4)))
	a := NewPlayer("a", strategy.Constant(3, 1))
	b := NewPlayer("b", strategy.Constant(3, 1))

	res, err := engine.RunMatch(a, b)
	if err != nil {
		t.Fatalf("run match: %v", err)
	}
	if res.Verdict != VerdictDraw {
		t.Fatalf("verdict = %v, want draw", res.Verdict)
	}
	if a.Scoreboard().Draws != 1 || b.Scoreboard().Draws != 1 {
		t.Fatalf("draws = %d/%d, want 1/1", a.Scoreboard().Draws, b.Scoreboard().Draws)
	}
	if a.Scoreboard().Score != 9 {
		t.Fatalf("score = %d, want 9", a.Scoreboard().Score)
	}
}

func TestRunMatchValidation(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t, 5, rand.New(rand.NewSource(1)))
	full := NewPlayer("full", strategy.Constant(5, 1))
	short := NewPlayer("short", strategy.Constant(2, 1))

	tests := []struct {
		name string
		a, b *Player
		code apperrors.Code
	}{
		{name: "nil player", a: full, b: nil, code: apperrors.CodeInvalidArgument},
		{name: "self pairing", a: full, b: full, code: apperrors.CodeInvalidArgument},
		{name: "short table", a: full, b: short, code: apperrors.CodeWeightTableShort},
	}
	for _, tc := range tests {
		_, err := engine.RunMatch(tc.a, tc.b)
		if got := apperrors.GetCode(err); got != tc.code {
			t.Fatalf("%s: code = %q, want %q (err %v)", tc.name, got, tc.code, err)
		}
	}
	if got := full.Scoreboard(); got != (Scoreboard{}) {
		t.Fatalf("scoreboard changed after failed matches: %+v", got)
	}
}

func TestRunMatchMemoryWindowRelaxesTableLength(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(Config{RoundsPerGame: 6, Payoffs: DefaultPayoffs(), Memory: 2}, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	a := NewPlayer("a", strategy.Constant(2, 1))
	b := NewPlayer("b", strategy.Constant(2, -1))

	res, err := engine.RunMatch(a, b)
	if err != nil {
		t.Fatalf("run match: %v", err)
	}
	if res.HistoryA.Len() != 6 {
		t.Fatalf("history length = %d, want 6", res.HistoryA.Len())
	}
}

func TestNewEngineValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(Config{RoundsPerGame: 0}, rand.New(rand.NewSource(1))); !errors.Is(err, apperrors.New(apperrors.CodeInvalidArgument, "")) {
		t.Fatalf("zero rounds err = %v, want invalid argument", err)
	}
	if _, err := NewEngine(Config{RoundsPerGame: 3}, nil); err == nil {
		t.Fatal("expected nil source error")
	}
}

type recordingObserver struct {
	started  []MatchInfo
	rounds   []RoundEvent
	finished []MatchResult
}

func (o *recordingObserver) MatchStarted(info MatchInfo)   { o.started = append(o.started, info) }
func (o *recordingObserver) RoundPlayed(evt RoundEvent)    { o.rounds = append(o.rounds, evt) }
func (o *recordingObserver) MatchFinished(res MatchResult) { o.finished = append(o.finished, res) }

func TestObserverSeesEveryRoundWithoutChangingOutcome(t *testing.T) {
	t.Parallel()

	quiet := newTestEngine(t, 6, rand.New(rand.NewSource(21)))
	observer := &recordingObserver{}
	loud := newTestEngine(t, 6, rand.New(rand.NewSource(21))).WithObserver(observer)

	pop := func() []*Player {
		players, err := NewPopulation(rand.New(rand.NewSource(5)), 2, 6, 1)
		if err != nil {
			t.Fatalf("new population: %v", err)
		}
		return players
	}
	quietPlayers, loudPlayers := pop(), pop()

	want, err := quiet.RunMatch(quietPlayers[0], quietPlayers[1])
	if err != nil {
		t.Fatalf("quiet match: %v", err)
	}
	got, err := loud.RunMatch(loudPlayers[0], loudPlayers[1])
	if err != nil {
		t.Fatalf("observed match: %v", err)
	}
	if got.ScoreA != want.ScoreA || got.ScoreB != want.ScoreB || got.HistoryA.String() != want.HistoryA.String() {
		t.Fatalf("observed result %+v differs from %+v", got, want)
	}

	if len(observer.started) != 1 || observer.started[0].Rounds != 6 {
		t.Fatalf("started = %+v, want one match of 6 rounds", observer.started)
	}
	if len(observer.rounds) != 6 {
		t.Fatalf("round events = %d, want 6", len(observer.rounds))
	}
	last := observer.rounds[5]
	if last.Round != 6 || last.ScoreA != got.ScoreA || last.HistoryB.Len() != 6 {
		t.Fatalf("last round event = %+v", last)
	}
	if len(observer.finished) != 1 || observer.finished[0].Verdict != got.Verdict {
		t.Fatalf("finished = %+v", observer.finished)
	}
}

package scenario

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
)

const forcedScenario = `local scene = Scenario.new("forced")
scene:config({rounds = 5, both_cooperate = 3, both_defect = 1, defector_gain = 5, cooperator_loss = 0})
scene:player("dove", {fill = 1.0})
scene:player("hawk", {fill = -1.0})
scene:player("saint", {fill = 2.0})
scene:match("dove", "hawk", {games = 1})
scene:expect("hawk", {score = 25, wins = 1})
scene:expect("dove", {score = 0, losses = 1})
scene:round({games = 2})
scene:expect("hawk", {score = 125, wins = 5, matches = 5})
scene:expect("dove", {score = 30, losses = 3, draws = 2})
scene:expect("saint", {score = 30, losses = 2, draws = 2, matches = 4})
return scene
`

func newTestRunner(t *testing.T, mode AssertionMode, logs *bytes.Buffer) *Runner {
	t.Helper()

	runner, err := NewRunner(Config{
		Assertions: mode,
		Verbose:    true,
		Logger:     log.New(logs, "", 0),
		Seed:       7,
	})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner
}

func TestRunFileForcedPlayers(t *testing.T) {
	t.Parallel()

	path := writeScenarioFixture(t, forcedScenario)
	var logs bytes.Buffer
	err := RunFile(context.Background(), Config{Logger: log.New(&logs, "", 0), Verbose: true, Seed: 1}, path)
	if err != nil {
		t.Fatalf("run scenario: %v\n%s", err, logs.String())
	}
	if !strings.Contains(logs.String(), "scenario done: forced") {
		t.Fatalf("logs = %q, want done line", logs.String())
	}
}

func TestStrictAssertionFailsStep(t *testing.T) {
	t.Parallel()

	scenario, err := LoadScenarioFromString("strict", `local scene = Scenario.new("strict")
scene:config({rounds = 3})
scene:player("dove", {fill = 1.0}):player("hawk", {fill = -1.0})
scene:match("dove", "hawk")
scene:expect("dove", {wins = 1})
return scene
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	var logs bytes.Buffer
	runner := newTestRunner(t, AssertionStrict, &logs)
	err = runner.RunScenario(context.Background(), scenario)
	if err == nil {
		t.Fatal("expected assertion failure")
	}
	if got := apperrors.GetCode(err); got != apperrors.CodeScenarioExpectation {
		t.Fatalf("code = %q, want %q", got, apperrors.CodeScenarioExpectation)
	}
	if !strings.Contains(err.Error(), "step 5 (expect)") {
		t.Fatalf("error = %v, want step prefix", err)
	}
	if !strings.Contains(err.Error(), "wins = 0, want 1") {
		t.Fatalf("error = %v, want mismatch detail", err)
	}
}

func TestLogOnlyAssertionContinues(t *testing.T) {
	t.Parallel()

	scenario, err := LoadScenarioFromString("logonly", `local scene = Scenario.new("logonly")
scene:config({rounds = 3})
scene:player("dove", {fill = 1.0}):player("hawk", {fill = -1.0})
scene:match("dove", "hawk")
scene:expect("dove", {score = 99})
scene:expect("hawk", {score = 15})
return scene
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	var logs bytes.Buffer
	runner := newTestRunner(t, AssertionLogOnly, &logs)
	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if runner.Failures() != 1 {
		t.Fatalf("failures = %d, want 1", runner.Failures())
	}
	if !strings.Contains(logs.String(), "assertion failed: dove: score = 0, want 99") {
		t.Fatalf("logs = %q, want assertion line", logs.String())
	}
}

func TestUnknownPlayer(t *testing.T) {
	t.Parallel()

	scenario, err := LoadScenarioFromString("unknown", `local scene = Scenario.new("unknown")
scene:player("dove", {fill = 1.0})
scene:match("dove", "ghost")
return scene
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	var logs bytes.Buffer
	err = newTestRunner(t, AssertionStrict, &logs).RunScenario(context.Background(), scenario)
	if got := apperrors.GetCode(err); got != apperrors.CodeScenarioUnknownPlayer {
		t.Fatalf("code = %q, want %q (err %v)", got, apperrors.CodeScenarioUnknownPlayer, err)
	}
}

func TestDuplicatePlayerRejected(t *testing.T) {
	t.Parallel()

	scenario, err := LoadScenarioFromString("dup", `local scene = Scenario.new("dup")
scene:player("dove", {fill = 1.0}):player("dove", {fill = 0.5})
return scene
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	var logs bytes.Buffer
	err = newTestRunner(t, AssertionStrict, &logs).RunScenario(context.Background(), scenario)
	if !apperrors.IsInvalidInput(err) {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestShortExplicitTableRejected(t *testing.T) {
	t.Parallel()

	scenario, err := LoadScenarioFromString("short", `local scene = Scenario.new("short")
scene:config({rounds = 4})
scene:player("tiny", {opponent = {{1, 1}}, self = {{1, 1}}})
scene:player("dove", {fill = 1.0})
scene:match("tiny", "dove")
return scene
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	var logs bytes.Buffer
	err = newTestRunner(t, AssertionStrict, &logs).RunScenario(context.Background(), scenario)
	if got := apperrors.GetCode(err); got != apperrors.CodeWeightTableShort {
		t.Fatalf("code = %q, want %q (err %v)", got, apperrors.CodeWeightTableShort, err)
	}
}

func TestNarratedMatchLogsRounds(t *testing.T) {
	t.Parallel()

	scenario, err := LoadScenarioFromString("narrate", `local scene = Scenario.new("narrate")
scene:config({rounds = 2})
scene:player("dove", {fill = 1.0}):player("hawk", {fill = -1.0})
scene:match("dove", "hawk", {narrate = true})
return scene
`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}

	var logs bytes.Buffer
	if err := newTestRunner(t, AssertionStrict, &logs).RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	for _, want := range []string{"Round 1", "Round 2", "hawk wins 10 to 0!"} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("logs missing %q:\n%s", want, logs.String())
		}
	}
}

func TestSeededRandomPlayersReproduce(t *testing.T) {
	t.Parallel()

	source := `local scene = Scenario.new("seeded")
scene:config({rounds = 6})
scene:random_player("a"):random_player("b"):random_player("c")
scene:round({games = 3})
return scene
`
	scores := func() []int {
		scenario, err := LoadScenarioFromString("seeded", source)
		if err != nil {
			t.Fatalf("load scenario: %v", err)
		}
		var logs bytes.Buffer
		runner := newTestRunner(t, AssertionStrict, &logs)
		state := newScenarioState()
		for _, step := range scenario.Steps {
			if err := runner.runStep(context.Background(), state, step); err != nil {
				t.Fatalf("step %s: %v", step.Kind, err)
			}
		}
		out := make([]int, 0, len(state.players))
		for _, p := range state.players {
			out = append(out, p.Scoreboard().Score)
		}
		return out
	}

	first, second := scores(), scores()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("scores differ: %v vs %v", first, second)
		}
	}
}

func TestParseAssertionMode(t *testing.T) {
	tests := []struct {
		in   string
		want AssertionMode
	}{
		{"", AssertionStrict},
		{"strict", AssertionStrict},
		{"LOG", AssertionLogOnly},
	}
	for _, tc := range tests {
		got, err := ParseAssertionMode(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseAssertionMode("loud"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestExpectRejectsMalformedTables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		expect string
	}{
		{"misspelled keys", `{win = 99, scroe = -1}`},
		{"string value", `{score = "999"}`},
		{"fractional value", `{score = 2.5}`},
		{"nothing to check", `{}`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			scenario, err := LoadScenarioFromString("malformed", `local scene = Scenario.new("malformed")
scene:config({rounds = 5})
scene:player("dove", {fill = 1.0}):player("hawk", {fill = -1.0})
scene:match("dove", "hawk")
scene:expect("hawk", `+tc.expect+`)
return scene
`)
			if err != nil {
				t.Fatalf("load scenario: %v", err)
			}

			var logs bytes.Buffer
			runner := newTestRunner(t, AssertionLogOnly, &logs)
			err = runner.RunScenario(context.Background(), scenario)
			if got := apperrors.GetCode(err); got != apperrors.CodeInvalidArgument {
				t.Fatalf("code = %q, want %q (err %v)", got, apperrors.CodeInvalidArgument, err)
			}
			if !strings.Contains(err.Error(), "step 5 (expect)") {
				t.Fatalf("error = %v, want expect step prefix", err)
			}
			if runner.Failures() != 0 {
				t.Fatalf("failures = %d, want 0", runner.Failures())
			}
		})
	}
}

func TestFractionalCountsRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		step string
	}{
		{"config rounds", `scene:config({rounds = 2.5})`},
		{"match games", `scene:match("dove", "hawk", {games = 1.5})`},
		{"round games", `scene:round({games = 0.5})`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			scenario, err := LoadScenarioFromString("fractional", `local scene = Scenario.new("fractional")
scene:player("dove", {fill = 1.0}):player("hawk", {fill = -1.0})
`+tc.step+`
return scene
`)
			if err != nil {
				t.Fatalf("load scenario: %v", err)
			}

			var logs bytes.Buffer
			err = newTestRunner(t, AssertionStrict, &logs).RunScenario(context.Background(), scenario)
			if got := apperrors.GetCode(err); got != apperrors.CodeInvalidArgument {
				t.Fatalf("code = %q, want %q (err %v)", got, apperrors.CodeInvalidArgument, err)
			}
		})
	}
}

package scenario

import (
	"fmt"
	"log"
	"strings"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
)

// AssertionMode decides whether failed expectations stop a scenario.
type AssertionMode int

const (
	// AssertionStrict fails the scenario on the first unmet expectation.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs unmet expectations and keeps going.
	AssertionLogOnly
)

// String returns the flag spelling of the mode.
func (m AssertionMode) String() string {
	if m == AssertionLogOnly {
		return "log"
	}
	return "strict"
}

// ParseAssertionMode accepts "strict" or "log"; empty means strict.
func ParseAssertionMode(value string) (AssertionMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "strict":
		return AssertionStrict, nil
	case "log", "log-only", "logonly":
		return AssertionLogOnly, nil
	default:
		return AssertionStrict, apperrors.WithMetadata(apperrors.CodeInvalidArgument, "unknown assertion mode",
			map[string]string{"mode": value})
	}
}

// Assertions reports expectation failures according to Mode.
type Assertions struct {
	Mode   AssertionMode
	Logger *log.Logger

	failures int
}

// Failf records an unmet expectation. In strict mode it returns the failure;
// in log-only mode it logs it and returns nil.
func (a *Assertions) Failf(format string, args ...any) error {
	a.failures++
	message := fmt.Sprintf(format, args...)
	if a.Mode == AssertionLogOnly {
		if a.Logger != nil {
			a.Logger.Printf("assertion failed: %s", message)
		}
		return nil
	}
	return apperrors.New(apperrors.CodeScenarioExpectation, message)
}

// Failures counts every unmet expectation seen so far, logged or not.
func (a *Assertions) Failures() int {
	return a.failures
}

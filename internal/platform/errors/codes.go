// Package errors provides structured errors with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Configuration errors
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodePopulationTooSmall Code = "POPULATION_TOO_SMALL"
	CodeWeightTableShort   Code = "WEIGHT_TABLE_SHORT"

	// Decision model errors
	CodeHistoryMismatch Code = "HISTORY_MISMATCH"
	CodeHistoryTooLong  Code = "HISTORY_TOO_LONG"

	// Scenario errors
	CodeScenarioUnknownPlayer Code = "SCENARIO_UNKNOWN_PLAYER"
	CodeScenarioExpectation   Code = "SCENARIO_EXPECTATION_FAILED"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// Category groups codes by how a caller should react to them.
type Category int

const (
	// CategoryInternal marks failures the caller cannot fix by changing input.
	CategoryInternal Category = iota
	// CategoryInvalidInput marks bad configuration or malformed arguments.
	CategoryInvalidInput
	// CategoryNotFound marks lookups of missing records.
	CategoryNotFound
)

// Category maps domain codes to a handling category.
func (c Code) Category() Category {
	switch c {
	case CodeInvalidArgument,
		CodePopulationTooSmall,
		CodeWeightTableShort,
		CodeHistoryMismatch,
		CodeHistoryTooLong,
		CodeScenarioUnknownPlayer,
		CodeAlreadyExists:
		return CategoryInvalidInput
	case CodeNotFound:
		return CategoryNotFound
	default:
		return CategoryInternal
	}
}

package scenario

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/DaelonShockley/NPD-Genetic-Simulation/internal/platform/errors"
	"github.com/DaelonShockley/NPD-Genetic-Simulation/internal/strategy"
)

func requiredString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok {
		return ""
	}
	text, ok := value.(string)
	if ok && text != "" {
		return text
	}
	return ""
}

// optionalInt returns fallback when key is absent. Present values must be
// whole numbers; 2.5 is rejected rather than read as 2.
func optionalInt(args map[string]any, key string, fallback int) (int, error) {
	value, ok := args[key]
	if !ok {
		return fallback, nil
	}
	switch typed := value.(type) {
	case int:
		return typed, nil
	case float64:
		if typed == math.Trunc(typed) {
			return int(typed), nil
		}
	}
	return 0, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
		fmt.Sprintf("%s must be an integer, got %v", key, value),
		map[string]string{"key": key})
}

func readFloat(args map[string]any, key string) (float64, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	return toFloat(value)
}

func optionalFloat(args map[string]any, key string, fallback float64) float64 {
	if value, ok := readFloat(args, key); ok {
		return value
	}
	return fallback
}

func toFloat(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case float64:
		return typed, true
	default:
		return 0, false
	}
}

func optionalBool(args map[string]any, key string, fallback bool) bool {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		lower := strings.ToLower(strings.TrimSpace(typed))
		if lower == "true" || lower == "yes" || lower == "1" {
			return true
		}
		if lower == "false" || lower == "no" || lower == "0" {
			return false
		}
	}
	return fallback
}

// readTable reads a list of {cooperate, defect} weight rows.
func readTable(args map[string]any, key string) (strategy.Table, error) {
	value, ok := args[key]
	if !ok {
		return strategy.Table{}, fmt.Errorf("%s table or fill is required", key)
	}
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return strategy.Table{}, fmt.Errorf("%s must be a list of rows", key)
	}
	rows := make([][2]float64, 0, len(list))
	for i, entry := range list {
		pair, ok := entry.([]any)
		if !ok || len(pair) != 2 {
			return strategy.Table{}, fmt.Errorf("%s row %d must hold two weights", key, i+1)
		}
		cooperate, okC := toFloat(pair[0])
		defect, okD := toFloat(pair[1])
		if !okC || !okD {
			return strategy.Table{}, fmt.Errorf("%s row %d weights must be numbers", key, i+1)
		}
		rows = append(rows, [2]float64{cooperate, defect})
	}
	return strategy.NewTable(rows), nil
}

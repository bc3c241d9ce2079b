// Package id generates identifiers for simulation records.
package id

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7 string, so ledger rows sort by
// creation when ordered by ID.
func NewID() (string, error) {
	value, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return value.String(), nil
}

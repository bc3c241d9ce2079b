// Package random provides seeding helpers for the simulation's random stream.
//
// A simulation consumes a single pseudo-random stream. Seeding it explicitly
// makes a run reproducible; NewSeed supplies a high-entropy seed when the
// caller has none.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// New returns a pseudo-random generator seeded with seed.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Resolve returns seed unchanged when it is non-zero and a fresh seed otherwise.
func Resolve(seed int64) (int64, error) {
	if seed != 0 {
		return seed, nil
	}
	return NewSeed()
}

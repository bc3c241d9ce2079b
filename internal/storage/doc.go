// Package storage defines the results ledger used to export finished
// simulation runs.
//
// The ledger is write-mostly: a run header is recorded when a simulation
// starts and a standings snapshot after every round-robin pass. Nothing in
// the ledger is ever loaded back into a simulation. Implementations live in
// subpackages (sqlite).
//
// # Error Types
//
//   - ErrNotFound: a requested run is missing.
//   - ErrAlreadyExists: a run or standings snapshot was recorded twice.
package storage

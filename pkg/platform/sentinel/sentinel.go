// Package sentinel holds the storage-level facts stores report. Services
// translate them into domain errors; input validation never uses them.
package sentinel

import "errors"

var (
	// ErrNotFound means the record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed means a uniqueness rule rejected the write: a second
	// ballot, a second candidacy, a seat already taken.
	ErrAlreadyUsed = errors.New("already used")
	// ErrInvalidState means the record exists but its current state forbids
	// the write, e.g. deleting a resolution that has votes.
	ErrInvalidState = errors.New("invalid state")
)

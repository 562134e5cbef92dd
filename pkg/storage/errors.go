package storage

import "errors"

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a record does not exist or belongs to
	// a different owner. Implementations never distinguish the two cases.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique constraint is violated,
	// for example two accounts with the same email.
	ErrConflict = errors.New("record already exists")
)

package api

import "github.com/google/uuid"

// NewID generates a new record identifier. All record types share the
// same UUIDv4 format.
func NewID() string {
	return uuid.NewString()
}

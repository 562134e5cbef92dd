package auth

import "errors"

// Verification errors. Each is surfaced to the client with a distinct
// message so it can decide between re-entry and requesting a new code.
var (
	// ErrNoAccount means no account exists for the submitted email.
	ErrNoAccount = errors.New("no account found for email")

	// ErrIncorrectCode means the submitted code does not match the
	// pending one. Also returned when no code is pending at all.
	ErrIncorrectCode = errors.New("incorrect verification code")

	// ErrCodeExpired means the code matched but its validity window has
	// elapsed. The caller must request a new code.
	ErrCodeExpired = errors.New("verification code expired")
)

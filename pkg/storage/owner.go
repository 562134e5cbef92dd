package storage

import "context"

// ownerKey is a private type for the owner context key, preventing
// collisions with other packages.
type ownerKey struct{}

// SetOwner injects the owning-account identifier into the context.
// Called by the auth middleware after token verification.
func SetOwner(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, userID)
}

// GetOwner extracts the owning-account identifier from the context.
// Returns an empty string if no owner is set.
func GetOwner(ctx context.Context) string {
	if v, ok := ctx.Value(ownerKey{}).(string); ok {
		return v
	}
	return ""
}

package auth

import (
	"context"

	"github.com/cognicase/cognicase/pkg/api"
)

// identityKey is a private type for the identity context key, preventing
// collisions with other packages.
type identityKey struct{}

// SetIdentity injects the authenticated account into the context.
func SetIdentity(ctx context.Context, u *api.User) context.Context {
	return context.WithValue(ctx, identityKey{}, u)
}

// IdentityFromContext extracts the authenticated account from the
// context. Returns nil if the request did not pass the middleware.
func IdentityFromContext(ctx context.Context) *api.User {
	if u, ok := ctx.Value(identityKey{}).(*api.User); ok {
		return u
	}
	return nil
}

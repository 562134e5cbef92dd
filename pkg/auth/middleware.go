package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cognicase/cognicase/pkg/observability"
	"github.com/cognicase/cognicase/pkg/storage"
)

// Middleware returns HTTP middleware that authenticates every request
// with a bearer session token. On success it resolves the token's
// subject to an account and injects both the identity and the owner
// identifier into the request context; everything downstream scopes
// data access by that owner and by nothing else.
//
// Absent, malformed, expired, or badly signed tokens are rejected as
// unauthenticated; there is no retry-with-same-credential path.
func Middleware(tokens *TokenIssuer, users storage.UserStore, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				reject(w, r, logger, "missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				reject(w, r, logger, "malformed authorization header")
				return
			}

			subject, err := tokens.Verify(parts[1])
			if err != nil {
				reject(w, r, logger, err.Error())
				return
			}

			user, err := users.GetUserByID(r.Context(), subject)
			if err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					reject(w, r, logger, "token subject unknown")
					return
				}
				logger.Error("resolving token subject", "error", err)
				http.Error(w, `{"error":"Authentication failed."}`, http.StatusInternalServerError)
				return
			}

			ctx := SetIdentity(r.Context(), user)
			ctx = storage.SetOwner(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	logger.Warn("authentication failed",
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
		"reason", reason,
	)
	observability.AuthRejectedTotal.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Authentication required. Please log in again."}`))
}

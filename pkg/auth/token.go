package auth

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the validity window of a session token.
// Sessions carry no server-side state, so compromise is bounded by
// this window; logout is a client-side discard.
const DefaultSessionTTL = 7 * 24 * time.Hour

// TokenIssuer mints and verifies HS256 session tokens. The subject
// claim carries the account identifier.
type TokenIssuer struct {
	secret  []byte
	ttl     time.Duration
	nowTime func() time.Time
}

// TokenIssuerOption configures a TokenIssuer.
type TokenIssuerOption func(*TokenIssuer)

// WithTokenTTL overrides the session validity window.
func WithTokenTTL(ttl time.Duration) TokenIssuerOption {
	return func(t *TokenIssuer) { t.ttl = ttl }
}

// WithTokenNowTime sets the clock function (primarily for testing).
func WithTokenNowTime(now func() time.Time) TokenIssuerOption {
	return func(t *TokenIssuer) { t.nowTime = now }
}

// NewTokenIssuer creates a token issuer with the given signing secret.
func NewTokenIssuer(secret string, opts ...TokenIssuerOption) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	t := &TokenIssuer{
		secret:  []byte(secret),
		ttl:     DefaultSessionTTL,
		nowTime: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Issue mints a session token bound to the given account identifier.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := t.nowTime()
	claims := jwtlib.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(t.ttl)),
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns the
// embedded account identifier.
func (t *TokenIssuer) Verify(raw string) (string, error) {
	token, err := jwtlib.ParseWithClaims(raw, &jwtlib.RegisteredClaims{},
		func(token *jwtlib.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return t.secret, nil
		},
		jwtlib.WithValidMethods([]string{"HS256"}),
		jwtlib.WithTimeFunc(t.nowTime),
	)
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	claims, ok := token.Claims.(*jwtlib.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session token claims")
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("session token missing subject")
	}
	return claims.Subject, nil
}

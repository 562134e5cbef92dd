package auth

import (
	"strings"
	"testing"
	"time"
)

func TestIssueVerifyRoundtrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	token, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	subject, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if subject != "user-42" {
		t.Errorf("subject = %q, want %q", subject, "user-42")
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer(""); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt

	issuer, err := NewTokenIssuer("test-secret",
		WithTokenTTL(time.Hour),
		WithTokenNowTime(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	token, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = issuedAt.Add(30 * time.Minute)
	if _, err := issuer.Verify(token); err != nil {
		t.Errorf("token should still be valid at half TTL: %v", err)
	}

	now = issuedAt.Add(2 * time.Hour)
	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret-one")
	other, _ := NewTokenIssuer("secret-two")

	token, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("expected token signed with a different secret to be rejected")
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret")

	token, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := issuer.Verify(tampered); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestVerifyGarbage(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret")

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(raw); err == nil {
			t.Errorf("Verify(%q) succeeded, want error", raw)
		}
	}
}

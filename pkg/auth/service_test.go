package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/storage/memory"
)

// captureSender records delivered codes and can simulate delivery failure.
type captureSender struct {
	email string
	code  string
	fail  bool
}

func (c *captureSender) SendOTP(_ context.Context, email, code string) error {
	if c.fail {
		return errors.New("relay refused connection")
	}
	c.email = email
	c.code = code
	return nil
}

func newTestService(t *testing.T, sender *captureSender, now func() time.Time) (*Service, *memory.Store) {
	t.Helper()
	store := memory.New()
	tokens, err := NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}
	opts := []ServiceOption{}
	if now != nil {
		opts = append(opts, WithNowTime(now))
	}
	svc, err := NewService(store, sender, tokens, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestRequestCodeCreatesAccount(t *testing.T) {
	sender := &captureSender{}
	svc, store := newTestService(t, sender, nil)
	ctx := context.Background()

	if err := svc.RequestCode(ctx, "jane@firm.test"); err != nil {
		t.Fatalf("RequestCode: %v", err)
	}

	if sender.email != "jane@firm.test" {
		t.Errorf("delivered to %q, want jane@firm.test", sender.email)
	}
	if len(sender.code) != 6 {
		t.Errorf("code %q is not six digits", sender.code)
	}

	user, err := store.GetUserByEmail(ctx, "jane@firm.test")
	if err != nil {
		t.Fatalf("account was not created: %v", err)
	}
	if user.Name != "jane" {
		t.Errorf("default name = %q, want local part of email", user.Name)
	}
	if user.Role != api.RoleAttorney {
		t.Errorf("default role = %q, want Attorney", user.Role)
	}
	if user.IsOnboarded {
		t.Error("new account must not be onboarded")
	}
	if !user.Pending.Matches(sender.code) {
		t.Error("stored pending code does not match delivered code")
	}
}

func TestRequestCodeOverwritesPrior(t *testing.T) {
	sender := &captureSender{}
	svc, store := newTestService(t, sender, nil)
	ctx := context.Background()

	if err := svc.RequestCode(ctx, "jane@firm.test"); err != nil {
		t.Fatalf("first RequestCode: %v", err)
	}
	first := sender.code

	if err := svc.RequestCode(ctx, "jane@firm.test"); err != nil {
		t.Fatalf("second RequestCode: %v", err)
	}
	second := sender.code

	user, err := store.GetUserByEmail(ctx, "jane@firm.test")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if !user.Pending.Matches(second) {
		t.Error("latest code should be pending")
	}
	if first != second && user.Pending.Matches(first) {
		t.Error("prior code should no longer verify")
	}
}

func TestRequestCodeDeliveryFailure(t *testing.T) {
	sender := &captureSender{fail: true}
	svc, store := newTestService(t, sender, nil)
	ctx := context.Background()

	if err := svc.RequestCode(ctx, "jane@firm.test"); err == nil {
		t.Fatal("expected delivery failure to surface")
	}

	// The code is persisted before delivery and stays valid.
	user, err := store.GetUserByEmail(ctx, "jane@firm.test")
	if err != nil {
		t.Fatalf("account should exist despite delivery failure: %v", err)
	}
	if user.Pending == nil {
		t.Error("pending code should survive delivery failure")
	}
}

func TestVerifyCodeSuccess(t *testing.T) {
	sender := &captureSender{}
	svc, store := newTestService(t, sender, nil)
	ctx := context.Background()

	if err := svc.RequestCode(ctx, "jane@firm.test"); err != nil {
		t.Fatalf("RequestCode: %v", err)
	}

	user, token, err := svc.VerifyCode(ctx, "jane@firm.test", sender.code)
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if token == "" {
		t.Error("expected a session token")
	}
	if user.Email != "jane@firm.test" {
		t.Errorf("user email = %q", user.Email)
	}

	// The token must resolve back to the account.
	subject, err := svc.tokens.Verify(token)
	if err != nil {
		t.Fatalf("verifying issued token: %v", err)
	}
	if subject != user.ID {
		t.Errorf("token subject = %q, want %q", subject, user.ID)
	}

	// The pending code is consumed.
	stored, _ := store.GetUserByEmail(ctx, "jane@firm.test")
	if stored.Pending != nil {
		t.Error("pending code should be cleared after verification")
	}
}

func TestVerifyCodeConsumeOnce(t *testing.T) {
	sender := &captureSender{}
	svc, _ := newTestService(t, sender, nil)
	ctx := context.Background()

	svc.RequestCode(ctx, "jane@firm.test")
	code := sender.code

	if _, _, err := svc.VerifyCode(ctx, "jane@firm.test", code); err != nil {
		t.Fatalf("first VerifyCode: %v", err)
	}
	if _, _, err := svc.VerifyCode(ctx, "jane@firm.test", code); !errors.Is(err, ErrIncorrectCode) {
		t.Errorf("second VerifyCode = %v, want ErrIncorrectCode", err)
	}
}

func TestVerifyCodeNoAccount(t *testing.T) {
	svc, _ := newTestService(t, &captureSender{}, nil)

	_, _, err := svc.VerifyCode(context.Background(), "nobody@firm.test", "123456")
	if !errors.Is(err, ErrNoAccount) {
		t.Errorf("got %v, want ErrNoAccount", err)
	}
}

func TestVerifyCodeMismatch(t *testing.T) {
	sender := &captureSender{}
	svc, _ := newTestService(t, sender, nil)
	ctx := context.Background()

	svc.RequestCode(ctx, "jane@firm.test")

	wrong := "000000"
	if wrong == sender.code {
		wrong = "000001"
	}
	_, _, err := svc.VerifyCode(ctx, "jane@firm.test", wrong)
	if !errors.Is(err, ErrIncorrectCode) {
		t.Errorf("got %v, want ErrIncorrectCode", err)
	}
}

func TestVerifyCodeExpired(t *testing.T) {
	sender := &captureSender{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, sender, func() time.Time { return now })
	ctx := context.Background()

	if err := svc.RequestCode(ctx, "jane@firm.test"); err != nil {
		t.Fatalf("RequestCode: %v", err)
	}

	now = now.Add(CodeTTL + time.Second)
	_, _, err := svc.VerifyCode(ctx, "jane@firm.test", sender.code)
	if !errors.Is(err, ErrCodeExpired) {
		t.Errorf("got %v, want ErrCodeExpired", err)
	}

	// An expired code is not consumed; a fresh request still works.
	if err := svc.RequestCode(ctx, "jane@firm.test"); err != nil {
		t.Fatalf("re-request after expiry: %v", err)
	}
	if _, _, err := svc.VerifyCode(ctx, "jane@firm.test", sender.code); err != nil {
		t.Errorf("fresh code should verify: %v", err)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	sender := &captureSender{}
	svc, store := newTestService(t, sender, nil)
	ctx := context.Background()

	svc.RequestCode(ctx, "jane@firm.test")
	user, _, err := svc.VerifyCode(ctx, "jane@firm.test", sender.code)
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}

	updated, err := svc.CompleteOnboarding(ctx, user.ID, Profile{
		Name:            "Jane Doe",
		Role:            api.RolePartner,
		Organization:    "Doe & Associates",
		PracticeArea:    "Corporate",
		ExperienceYears: "12",
	})
	if err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if !updated.IsOnboarded {
		t.Error("account should be marked onboarded")
	}
	if updated.Name != "Jane Doe" || updated.Role != api.RolePartner {
		t.Errorf("profile not applied: %+v", updated)
	}

	stored, _ := store.GetUserByID(ctx, user.ID)
	if !stored.IsOnboarded || stored.Organization != "Doe & Associates" {
		t.Errorf("profile not persisted: %+v", stored)
	}
}

func TestCompleteOnboardingUnknownUser(t *testing.T) {
	svc, _ := newTestService(t, &captureSender{}, nil)

	_, err := svc.CompleteOnboarding(context.Background(), "missing", Profile{Name: "X"})
	if err == nil {
		t.Error("expected error for unknown account")
	}
}

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generateCode: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not six digits", code)
		}
		if code[0] == '0' {
			t.Fatalf("code %q has a leading zero", code)
		}
	}
}

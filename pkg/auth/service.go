package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/cognicase/cognicase/pkg/api"
	"github.com/cognicase/cognicase/pkg/mail"
	"github.com/cognicase/cognicase/pkg/observability"
	"github.com/cognicase/cognicase/pkg/storage"
)

// CodeTTL is the validity window of a one-time passcode.
const CodeTTL = 5 * time.Minute

// Service issues and verifies one-time passcodes and completes
// account onboarding.
type Service struct {
	users   storage.UserStore
	mailer  mail.Sender
	tokens  *TokenIssuer
	logger  *slog.Logger
	nowTime func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNowTime sets the clock function (primarily for testing).
func WithNowTime(now func() time.Time) ServiceOption {
	return func(s *Service) { s.nowTime = now }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService creates the credential issuance service.
func NewService(users storage.UserStore, mailer mail.Sender, tokens *TokenIssuer, opts ...ServiceOption) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user store is required")
	}
	if mailer == nil {
		return nil, fmt.Errorf("mail sender is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	s := &Service{
		users:   users,
		mailer:  mailer,
		tokens:  tokens,
		logger:  slog.Default(),
		nowTime: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// RequestCode generates a six-digit code for the email address, stores
// it on the account with a 5-minute expiry, and delivers it. The
// account is created lazily on first request. A new request overwrites
// any prior pending code, so only the latest code verifies.
//
// The code is persisted before delivery and is not rolled back if
// delivery fails: a retried request simply overwrites it.
func (s *Service) RequestCode(ctx context.Context, email string) error {
	now := s.nowTime()

	user, err := s.users.GetUserByEmail(ctx, email)
	created := false
	switch {
	case errors.Is(err, storage.ErrNotFound):
		user = &api.User{
			ID:          api.NewID(),
			Email:       email,
			Name:        localPart(email),
			Role:        api.RoleAttorney,
			IsOnboarded: false,
			CreatedAt:   now,
		}
		created = true
	case err != nil:
		return fmt.Errorf("looking up account: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	user.Pending = api.NewPendingCode(code, now.Add(CodeTTL))
	user.UpdatedAt = now

	if created {
		err = s.users.CreateUser(ctx, user)
	} else {
		err = s.users.UpdateUser(ctx, user)
	}
	if err != nil {
		return fmt.Errorf("storing pending code: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		observability.OTPIssuedTotal.WithLabelValues("failed").Inc()
		s.logger.Error("otp delivery failed", "email", email, "error", err)
		// The stored code stays valid for its full window.
		return fmt.Errorf("delivering verification code: %w", err)
	}

	observability.OTPIssuedTotal.WithLabelValues("sent").Inc()
	s.logger.Info("otp issued", "email", email, "new_account", created)
	return nil
}

// VerifyCode validates a submitted code and, on success, clears the
// pending code and mints a session token bound to the account.
//
// Failures are distinct: ErrNoAccount when the email is unknown,
// ErrIncorrectCode on mismatch (including when nothing is pending),
// ErrCodeExpired when the code matched but its window elapsed. In the
// failure cases the pending code is left untouched.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (*api.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		observability.OTPVerificationsTotal.WithLabelValues("no_account").Inc()
		return nil, "", ErrNoAccount
	}
	if err != nil {
		return nil, "", fmt.Errorf("looking up account: %w", err)
	}

	if !user.Pending.Matches(code) {
		observability.OTPVerificationsTotal.WithLabelValues("mismatch").Inc()
		return nil, "", ErrIncorrectCode
	}

	if user.Pending.Expired(s.nowTime()) {
		observability.OTPVerificationsTotal.WithLabelValues("expired").Inc()
		return nil, "", ErrCodeExpired
	}

	// Consume the code atomically with persisting the account. The
	// account document is the unit of atomicity.
	user.Pending = nil
	user.UpdatedAt = s.nowTime()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("consuming pending code: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issuing session: %w", err)
	}

	observability.OTPVerificationsTotal.WithLabelValues("success").Inc()
	s.logger.Info("session issued", "user_id", user.ID)
	return user, token, nil
}

// Profile holds the onboarding form fields.
type Profile struct {
	Name            string
	Role            api.Role
	Organization    string
	PracticeArea    string
	ExperienceYears string
}

// CompleteOnboarding overwrites the account's profile fields and marks
// onboarding complete. Once set, the onboarding flag never flips back.
// The pending code fields are untouched.
func (s *Service) CompleteOnboarding(ctx context.Context, userID string, p Profile) (*api.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = p.Name
	user.Role = p.Role
	user.Organization = p.Organization
	user.PracticeArea = p.PracticeArea
	user.ExperienceYears = p.ExperienceYears
	user.IsOnboarded = true
	user.UpdatedAt = s.nowTime()

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

// generateCode draws a six-digit code uniformly from [100000, 999999]:
// always exactly six digits, no leading zero.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// localPart returns the substring before the '@', used as the default
// display name for lazily created accounts.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

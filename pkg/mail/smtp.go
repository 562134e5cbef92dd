package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig holds the SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the sender address; defaults to Username.
	From string
}

// SMTPSender delivers codes over an authenticated SMTP relay.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// Ensure SMTPSender implements Sender at compile time.
var _ Sender = (*SMTPSender)(nil)

// NewSMTPSender creates a sender for the given relay. STARTTLS is
// attempted opportunistically, matching typical submission-port relays.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp credentials are required")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: from}, nil
}

// SendOTP sends one verification email. A failure here does not
// invalidate the stored code; callers surface the error and the client
// retries the request operation.
func (s *SMTPSender) SendOTP(ctx context.Context, email, code string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.To(email); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(otpSubject)
	msg.SetBodyString(gomail.TypeTextPlain, otpBody(code))
	msg.AddAlternativeString(gomail.TypeTextHTML, otpHTML(code))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}

// Package mail delivers one-time passcodes to account email addresses.
package mail

import (
	"context"
	"fmt"
	"log/slog"
)

// Sender delivers a one-time passcode to an email address.
type Sender interface {
	SendOTP(ctx context.Context, email, code string) error
}

// Subject line and body copy for the verification email. The validity
// statement must match the issuance service's 5-minute window.
const (
	otpSubject = "CogniCase Verification Code"
	otpText    = "Your CogniCase verification code is: %s. This code expires in 5 minutes."
)

// otpBody renders the plain-text body for the given code.
func otpBody(code string) string {
	return fmt.Sprintf(otpText, code)
}

// otpHTML renders the HTML alternative body for the given code.
func otpHTML(code string) string {
	return fmt.Sprintf(`<html><body style="font-family:sans-serif">
<h2>Verify Your Identity</h2>
<p>Use the verification code below to access your account.
This code is valid for <strong>5 minutes</strong>.</p>
<p style="font-size:32px;font-family:monospace;letter-spacing:8px"><strong>%s</strong></p>
<p>If you didn't request this code, you can safely ignore this email.</p>
</body></html>`, code)
}

// LogSender logs codes instead of sending them. Used in development
// runs without an SMTP relay.
type LogSender struct {
	Logger *slog.Logger
}

// SendOTP logs the code at info level.
func (l *LogSender) SendOTP(_ context.Context, email, code string) error {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("otp delivery (log sender)", "email", email, "code", code)
	return nil
}

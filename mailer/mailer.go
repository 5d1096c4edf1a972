package mailer

import (
	"fmt"
	"net/smtp"
	"os"
)

// Service sends transactional mail over SMTP. Password reset is the only
// mail this backend sends; delivery failures are logged by callers, never
// surfaced to the requester.
type Service struct {
	host     string
	port     string
	from     string
	password string
}

func NewFromEnv() *Service {
	return &Service{
		host:     os.Getenv("SMTP_HOST"),
		port:     envOr("SMTP_PORT", "587"),
		from:     envOr("SMTP_FROM", "no-reply@localhost"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SendPasswordReset mails the reset link for the given token.
func (s *Service) SendPasswordReset(to, resetURL string) error {
	if s.host == "" {
		return fmt.Errorf("SMTP_HOST not configured")
	}

	subject := "Reset your password"
	body := fmt.Sprintf(
		"<p>You requested a password reset.</p>"+
			"<p><a href=%q>Click here to choose a new password</a>. "+
			"The link expires in 15 minutes.</p>"+
			"<p>If you did not request this, you can ignore this email.</p>",
		resetURL)

	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	var auth smtp.Auth
	if s.password != "" {
		auth = smtp.PlainAuth("", s.from, s.password, s.host)
	}
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}

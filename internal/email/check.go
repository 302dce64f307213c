// Package email performs local preflight checks on the sender credentials
// before they are shipped to the backend's delivery endpoints. Actual
// sending happens server-side; the preflight catches typos and revoked app
// passwords without burning a send job.
package email

import (
	"crypto/tls"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/leadforge/leadforge/internal/config"
)

const defaultSMTPPort = 465

// ValidateEmail checks for injection characters and RFC 5322 compliance
func ValidateEmail(email string) error {
	if strings.ContainsAny(email, "\r\n,;") {
		return fmt.Errorf("email contains invalid characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// Verifier checks SMTP credentials by connecting and authenticating,
// without sending anything.
type Verifier struct {
	config config.SenderConfig
}

// NewVerifier creates a verifier for the given sender settings.
func NewVerifier(cfg config.SenderConfig) *Verifier {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = defaultSMTPPort
	}
	return &Verifier{config: cfg}
}

// Verify dials the SMTP server over TLS and authenticates. A nil return
// means the credentials are usable for a send job.
func (v *Verifier) Verify() error {
	if err := ValidateEmail(v.config.Email); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", v.config.Host, v.config.Port)
	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: v.config.Host,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("TLS connection failed: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, v.config.Host)
	if err != nil {
		return fmt.Errorf("SMTP client creation failed: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", v.config.Email, v.config.Password, v.config.Host)
	if err := client.Auth(auth); err != nil {
		return sanitizeSMTPError(err)
	}

	return client.Quit()
}

// sanitizeSMTPError avoids echoing server responses that may contain
// credential fragments
func sanitizeSMTPError(err error) error {
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "auth") || strings.Contains(s, "username") || strings.Contains(s, "password") {
		return fmt.Errorf("SMTP authentication failed: check the address and app password")
	}
	if strings.Contains(s, "certificate") {
		return fmt.Errorf("TLS certificate error")
	}
	return fmt.Errorf("SMTP error: check your sender configuration")
}

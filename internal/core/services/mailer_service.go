package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/smtp"

	"schoolrec/internal/config"
)

// ErrMailerDisabled is returned when no SMTP credentials are configured.
// OTP issuance must fail rather than pretend the code was delivered.
var ErrMailerDisabled = errors.New("mailer is not configured")

// MailerService delivers OTP codes over SMTP
type MailerService struct {
	cfg     config.SMTPConfig
	enabled bool
}

// NewMailerService creates a new mailer service
func NewMailerService(cfg config.SMTPConfig) *MailerService {
	enabled := cfg.Host != "" && cfg.Email != ""
	if !enabled {
		log.Println("⚠️ SMTP not configured, OTP login is unavailable")
	}
	return &MailerService{
		cfg:     cfg,
		enabled: enabled,
	}
}

// IsEnabled checks if mail delivery is enabled
func (s *MailerService) IsEnabled() bool {
	return s.enabled
}

// SendCode sends a one-time passcode to the given address
func (s *MailerService) SendCode(ctx context.Context, email, code string) error {
	if !s.enabled {
		return ErrMailerDisabled
	}

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: Your OTP for Login\r\n"+
			"\r\n"+
			"Your one-time password (OTP) is %s. It is valid for 5 minutes.\r\n",
		s.cfg.From, email, code,
	))

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Email, s.cfg.Password, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{email}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	log.Printf("✅ OTP mail sent to %s", email)
	return nil
}

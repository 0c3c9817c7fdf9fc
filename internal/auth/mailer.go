package auth

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/nuvoryx/drive/internal/config"
	"go.uber.org/zap"
)

// SMTPMailer sends confirmation emails over plain SMTP with auth.
type SMTPMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer builds a mailer from SMTP settings.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendConfirmation delivers the account confirmation link.
func (m *SMTPMailer) SendConfirmation(_ context.Context, email, link string) error {
	body := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirm your account\r\n\r\n"+
			"Hello!\r\nPlease confirm your account by following this link: %s\r\n\r\nThanks for using Nuvoryx!\r\n",
		m.cfg.Sender, email, link)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := smtp.SendMail(addr, auth, m.cfg.Sender, []string{email}, []byte(body)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer logs confirmation links instead of delivering them. Used when
// no SMTP host is configured.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer builds a mailer that only logs.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// SendConfirmation logs the link.
func (m *LogMailer) SendConfirmation(_ context.Context, email, link string) error {
	m.log.Info("confirmation link", zap.String("email", email), zap.String("link", link))
	return nil
}

// Package email delivers transactional mail over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/textproto"
	"strings"
)

// SMTPConfig holds SMTP configuration.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Sender handles sending emails.
type Sender struct {
	smtp *SMTPConfig
	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender creates a new email sender.
func NewSender(smtpConfig *SMTPConfig) *Sender {
	return &Sender{
		smtp: smtpConfig,
		send: smtp.SendMail,
	}
}

// Message represents an email to send.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Send sends a plain-text email using SMTP.
func (s *Sender) Send(ctx context.Context, msg *Message) error {
	if s.smtp == nil || s.smtp.Host == "" {
		return fmt.Errorf("SMTP not configured")
	}
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}

	slog.Info("Sending email via SMTP",
		"to", msg.To,
		"subject", msg.Subject,
	)

	full := BuildMessage(s.smtp, msg)

	auth := smtp.PlainAuth("", s.smtp.Username, s.smtp.Password, s.smtp.Host)
	addr := fmt.Sprintf("%s:%d", s.smtp.Host, s.smtp.Port)

	if err := s.send(addr, auth, s.smtp.From, []string{msg.To}, full); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// BuildMessage assembles the raw RFC 5322 message bytes.
func BuildMessage(cfg *SMTPConfig, msg *Message) []byte {
	fromHeader := cfg.From
	if cfg.FromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}

	headers := make(textproto.MIMEHeader)
	headers.Set("From", fromHeader)
	headers.Set("To", msg.To)
	headers.Set("Subject", msg.Subject)
	headers.Set("MIME-Version", "1.0")
	headers.Set("Content-Type", "text/plain; charset=utf-8")

	var buf bytes.Buffer
	for k, v := range headers {
		buf.WriteString(fmt.Sprintf("%s: %s\r\n", k, strings.Join(v, ", ")))
	}
	buf.WriteString("\r\n")
	buf.WriteString(msg.Body)
	return buf.Bytes()
}

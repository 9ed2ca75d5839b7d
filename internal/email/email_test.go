package email

import (
	"context"
	"fmt"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	cfg := &SMTPConfig{From: "noreply@talenthub.test", FromName: "Talent Hub"}
	msg := &Message{To: "grad@example.com", Subject: "Hello", Body: "Body text"}

	raw := string(BuildMessage(cfg, msg))
	assert.Contains(t, raw, "From: Talent Hub <noreply@talenthub.test>\r\n")
	assert.Contains(t, raw, "To: grad@example.com\r\n")
	assert.Contains(t, raw, "Subject: Hello\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=utf-8\r\n")
	assert.Contains(t, raw, "\r\n\r\nBody text")
}

func TestBuildMessageWithoutFromName(t *testing.T) {
	cfg := &SMTPConfig{From: "noreply@talenthub.test"}
	raw := string(BuildMessage(cfg, &Message{To: "a@b.c", Subject: "S", Body: "B"}))
	assert.Contains(t, raw, "From: noreply@talenthub.test\r\n")
}

func TestSenderSend(t *testing.T) {
	newSender := func(sendFn func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) *Sender {
		s := NewSender(&SMTPConfig{
			Host: "smtp.test",
			Port: 587,
			From: "noreply@talenthub.test",
		})
		s.send = sendFn
		return s
	}

	t.Run("delivers to the configured relay", func(t *testing.T) {
		var gotAddr, gotFrom string
		var gotTo []string
		s := newSender(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo = addr, from, to
			return nil
		})

		err := s.Send(context.Background(), &Message{To: "grad@example.com", Subject: "S", Body: "B"})
		require.NoError(t, err)
		assert.Equal(t, "smtp.test:587", gotAddr)
		assert.Equal(t, "noreply@talenthub.test", gotFrom)
		assert.Equal(t, []string{"grad@example.com"}, gotTo)
	})

	t.Run("missing recipient", func(t *testing.T) {
		s := newSender(nil)
		err := s.Send(context.Background(), &Message{Subject: "S"})
		assert.Error(t, err)
	})

	t.Run("relay failure is wrapped", func(t *testing.T) {
		s := newSender(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			return fmt.Errorf("connection refused")
		})
		err := s.Send(context.Background(), &Message{To: "a@b.c"})
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("unconfigured SMTP", func(t *testing.T) {
		s := NewSender(&SMTPConfig{})
		err := s.Send(context.Background(), &Message{To: "a@b.c"})
		assert.Error(t, err)
	})
}

func TestTemplates(t *testing.T) {
	t.Run("verification", func(t *testing.T) {
		msg := VerificationEmail("grad@example.com", "https://app.talenthub.test", "tok123")
		assert.Equal(t, "grad@example.com", msg.To)
		assert.Contains(t, msg.Body, "https://app.talenthub.test/verify-email?token=tok123")
	})

	t.Run("password reset", func(t *testing.T) {
		msg := PasswordResetEmail("grad@example.com", "https://app.talenthub.test", "tok456")
		assert.Contains(t, msg.Body, "https://app.talenthub.test/reset-password?token=tok456")
		assert.Contains(t, msg.Body, "used once")
	})

	t.Run("application status", func(t *testing.T) {
		msg := ApplicationStatusEmail("grad@example.com", "Backend Engineer", "Acme", "shortlisted")
		assert.Contains(t, msg.Subject, "Backend Engineer")
		assert.Contains(t, msg.Body, "shortlisted")
		assert.Contains(t, msg.Body, "Acme")
	})

	t.Run("interview", func(t *testing.T) {
		msg := InterviewEmail("grad@example.com", "Backend Engineer", "Acme", "Mon, 02 Mar 2026 10:00 UTC")
		assert.Contains(t, msg.Body, "Mon, 02 Mar 2026 10:00 UTC")
	})

	t.Run("offer", func(t *testing.T) {
		msg := OfferEmail("grad@example.com", "Backend Engineer", "Acme")
		assert.Contains(t, msg.Subject, "Acme")
		assert.Contains(t, msg.Body, "Backend Engineer")
	})
}

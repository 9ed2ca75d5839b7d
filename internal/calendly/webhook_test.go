package calendly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signingKey = "whsec_test_key"

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"invitee.created"}`)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid signature", func(t *testing.T) {
		header := SignPayload(body, signingKey, now)
		assert.NoError(t, VerifySignature(header, body, signingKey, now))
	})

	t.Run("signature within tolerance", func(t *testing.T) {
		header := SignPayload(body, signingKey, now.Add(-2*time.Minute))
		assert.NoError(t, VerifySignature(header, body, signingKey, now))
	})

	t.Run("stale signature", func(t *testing.T) {
		header := SignPayload(body, signingKey, now.Add(-4*time.Minute))
		assert.Error(t, VerifySignature(header, body, signingKey, now))
	})

	t.Run("future signature beyond tolerance", func(t *testing.T) {
		header := SignPayload(body, signingKey, now.Add(4*time.Minute))
		assert.Error(t, VerifySignature(header, body, signingKey, now))
	})

	t.Run("tampered body", func(t *testing.T) {
		header := SignPayload(body, signingKey, now)
		assert.Error(t, VerifySignature(header, []byte(`{"event":"invitee.canceled"}`), signingKey, now))
	})

	t.Run("wrong key", func(t *testing.T) {
		header := SignPayload(body, "other_key", now)
		assert.Error(t, VerifySignature(header, body, signingKey, now))
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Error(t, VerifySignature("", body, signingKey, now))
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Error(t, VerifySignature("t=,v1=", body, signingKey, now))
		assert.Error(t, VerifySignature("garbage", body, signingKey, now))
		assert.Error(t, VerifySignature("t=notanumber,v1=abcd", body, signingKey, now))
	})

	t.Run("unconfigured signing key", func(t *testing.T) {
		header := SignPayload(body, signingKey, now)
		assert.Error(t, VerifySignature(header, body, "", now))
	})
}

func TestParseWebhook(t *testing.T) {
	t.Run("invitee created", func(t *testing.T) {
		body := []byte(`{
			"event": "invitee.created",
			"created_at": "2026-03-01T12:00:00Z",
			"payload": {
				"uri": "https://api.calendly.com/scheduled_events/abc/invitees/def",
				"email": "grad@example.com",
				"name": "Ada Achebe",
				"scheduled_event": {
					"uri": "https://api.calendly.com/scheduled_events/abc",
					"start_time": "2026-03-05T10:00:00Z",
					"end_time": "2026-03-05T10:45:00Z",
					"location": {"type": "zoom", "join_url": "https://zoom.us/j/123"}
				},
				"tracking": {"utm_content": "7a0b4a52-1111-2222-3333-444455556666"}
			}
		}`)

		payload, err := ParseWebhook(body)
		require.NoError(t, err)
		assert.Equal(t, EventInviteeCreated, payload.Event)
		assert.Equal(t, "grad@example.com", payload.Payload.Email)
		assert.Equal(t, "https://api.calendly.com/scheduled_events/abc", payload.Payload.ScheduledEvent.URI)
		assert.Equal(t, "https://zoom.us/j/123", payload.Payload.ScheduledEvent.Location.JoinURL)
		assert.Equal(t, "7a0b4a52-1111-2222-3333-444455556666", payload.Payload.Tracking.UTMContent)
		assert.Equal(t, 45*time.Minute, payload.Payload.ScheduledEvent.EndTime.Sub(payload.Payload.ScheduledEvent.StartTime))
	})

	t.Run("invitee canceled", func(t *testing.T) {
		body := []byte(`{
			"event": "invitee.canceled",
			"payload": {
				"scheduled_event": {"uri": "https://api.calendly.com/scheduled_events/abc"},
				"cancellation": {"reason": "conflict", "canceled_by": "invitee"}
			}
		}`)

		payload, err := ParseWebhook(body)
		require.NoError(t, err)
		assert.Equal(t, EventInviteeCanceled, payload.Event)
		assert.Equal(t, "conflict", payload.Payload.Cancellation.Reason)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseWebhook([]byte("{"))
		assert.Error(t, err)
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := ParseWebhook([]byte(`{"payload":{}}`))
		assert.Error(t, err)
	})
}

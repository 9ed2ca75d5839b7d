package calendly

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Webhook event types.
const (
	EventInviteeCreated  = "invitee.created"
	EventInviteeCanceled = "invitee.canceled"
)

// Webhook signatures older than this are rejected to limit replay.
const signatureTolerance = 3 * time.Minute

// WebhookPayload is the body of a Calendly webhook delivery.
type WebhookPayload struct {
	Event     string    `json:"event"`
	CreatedAt time.Time `json:"created_at"`
	Payload   struct {
		URI       string    `json:"uri"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		Status    string    `json:"status"`
		Event     string    `json:"event"` // scheduled event URI
		Timezone  string    `json:"timezone"`
		CreatedAt time.Time `json:"created_at"`
		Cancellation struct {
			Reason     string `json:"reason"`
			CanceledBy string `json:"canceled_by"`
		} `json:"cancellation"`
		ScheduledEvent struct {
			URI       string    `json:"uri"`
			Name      string    `json:"name"`
			StartTime time.Time `json:"start_time"`
			EndTime   time.Time `json:"end_time"`
			Location  struct {
				Type    string `json:"type"`
				JoinURL string `json:"join_url"`
			} `json:"location"`
		} `json:"scheduled_event"`
		Tracking struct {
			UTMSource  string `json:"utm_source"`
			UTMContent string `json:"utm_content"`
		} `json:"tracking"`
	} `json:"payload"`
}

// ParseWebhook decodes a webhook body.
func ParseWebhook(body []byte) (*WebhookPayload, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	if payload.Event == "" {
		return nil, fmt.Errorf("webhook payload has no event")
	}
	return &payload, nil
}

// VerifySignature validates a Calendly-Webhook-Signature header of the form
// "t=<unix>,v1=<hex hmac>" against the raw body. The HMAC-SHA256 message is
// "<t>.<body>" keyed by the webhook signing key.
func VerifySignature(header string, body []byte, signingKey string, now time.Time) error {
	if signingKey == "" {
		return fmt.Errorf("webhook signing key not configured")
	}
	if header == "" {
		return fmt.Errorf("missing signature header")
	}

	var timestamp, signature string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signature = kv[1]
		}
	}
	if timestamp == "" || signature == "" {
		return fmt.Errorf("malformed signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp")
	}
	age := now.Sub(time.Unix(ts, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(signingKey))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// SignPayload produces a signature header for the given body, for tests and
// local webhook simulation.
func SignPayload(body []byte, signingKey string, at time.Time) string {
	timestamp := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(signingKey))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

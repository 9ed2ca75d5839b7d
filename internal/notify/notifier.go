// Package notify fans out domain events to in-app notifications and,
// when SMTP is configured, to email.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/email"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/store"
)

// Notifier writes in-app notifications and sends the matching email when a
// sender is available. Email failures are logged, never surfaced: the in-app
// notification is the source of truth.
type Notifier struct {
	store  *store.Store
	sender *email.Sender
	log    *slog.Logger
}

// New creates a Notifier. sender may be nil when SMTP is not configured.
func New(st *store.Store, sender *email.Sender, log *slog.Logger) *Notifier {
	return &Notifier{store: st, sender: sender, log: log}
}

func (n *Notifier) record(ctx context.Context, userID uuid.UUID, notifType, title, body string, data any) {
	var raw json.RawMessage
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = b
		}
	}
	if _, err := n.store.CreateNotification(ctx, userID, notifType, title, body, raw); err != nil {
		n.log.Error("failed to record notification", "user_id", userID, "type", notifType, "error", err)
	}
}

// SendEmail delivers a one-off message, logging delivery failures. It is a
// no-op when SMTP is not configured.
func (n *Notifier) SendEmail(msg *email.Message) {
	if n.sender == nil {
		return
	}
	if err := n.sender.Send(context.Background(), msg); err != nil {
		n.log.Error("failed to send email", "to", msg.To, "error", err)
	}
}

// ApplicationReceived notifies the company that a graduate applied.
func (n *Notifier) ApplicationReceived(ctx context.Context, companyUserID uuid.UUID, app *models.Application) {
	n.record(ctx, companyUserID, models.NotificationNewApplication,
		"New application received",
		app.GraduateName.String+" applied for "+app.JobTitle.String,
		map[string]string{"application_id": app.ID.String(), "job_id": app.JobID.String()},
	)
}

// ApplicationStatusChanged notifies the graduate of a status transition.
func (n *Notifier) ApplicationStatusChanged(ctx context.Context, graduateUserID uuid.UUID, app *models.Application) {
	n.record(ctx, graduateUserID, models.NotificationApplicationStatus,
		"Application update",
		"Your application for "+app.JobTitle.String+" is now "+app.Status,
		map[string]string{"application_id": app.ID.String(), "status": app.Status},
	)
	if app.GraduateEmail.Valid {
		n.SendEmail(email.ApplicationStatusEmail(app.GraduateEmail.String, app.JobTitle.String, app.CompanyName.String, app.Status))
	}
}

// MessageReceived notifies the recipient of a new message.
func (n *Notifier) MessageReceived(ctx context.Context, recipientUserID uuid.UUID, conversationID uuid.UUID, preview string) {
	preview = truncate(preview, 120)
	n.record(ctx, recipientUserID, models.NotificationNewMessage,
		"New message", preview,
		map[string]string{"conversation_id": conversationID.String()},
	)
}

// InterviewScheduled notifies the graduate of a new interview.
func (n *Notifier) InterviewScheduled(ctx context.Context, graduateUserID uuid.UUID, iv *models.Interview, graduateEmail string) {
	when := iv.ScheduledAt.Format("Mon, 02 Jan 2006 15:04 MST")
	n.record(ctx, graduateUserID, models.NotificationInterview,
		"Interview scheduled",
		"Interview for "+iv.JobTitle.String+" at "+iv.CompanyName.String+" on "+when,
		map[string]string{"interview_id": iv.ID.String()},
	)
	if graduateEmail != "" {
		n.SendEmail(email.InterviewEmail(graduateEmail, iv.JobTitle.String, iv.CompanyName.String, when))
	}
}

// InterviewCanceled notifies the graduate of a cancellation.
func (n *Notifier) InterviewCanceled(ctx context.Context, graduateUserID uuid.UUID, iv *models.Interview) {
	n.record(ctx, graduateUserID, models.NotificationInterview,
		"Interview canceled",
		"Your interview for "+iv.JobTitle.String+" has been canceled",
		map[string]string{"interview_id": iv.ID.String()},
	)
}

// OfferExtended notifies the graduate of a new offer.
func (n *Notifier) OfferExtended(ctx context.Context, graduateUserID uuid.UUID, offer *models.Offer, graduateEmail string) {
	n.record(ctx, graduateUserID, models.NotificationOffer,
		"You received an offer",
		offer.CompanyName.String+" extended you an offer for "+offer.JobTitle.String,
		map[string]string{"offer_id": offer.ID.String()},
	)
	if graduateEmail != "" {
		n.SendEmail(email.OfferEmail(graduateEmail, offer.JobTitle.String, offer.CompanyName.String))
	}
}

// OfferResponded notifies the company that a graduate answered an offer.
func (n *Notifier) OfferResponded(ctx context.Context, companyUserID uuid.UUID, offer *models.Offer) {
	n.record(ctx, companyUserID, models.NotificationOffer,
		"Offer "+offer.Status,
		"The offer for "+offer.JobTitle.String+" was "+offer.Status,
		map[string]string{"offer_id": offer.ID.String(), "status": offer.Status},
	)
}

// MatchesReady notifies a graduate that fresh matches were computed.
func (n *Notifier) MatchesReady(ctx context.Context, graduateUserID uuid.UUID, count int) {
	if count == 0 {
		return
	}
	n.record(ctx, graduateUserID, models.NotificationMatch,
		"New job matches",
		"We found new jobs that match your profile",
		map[string]int{"count": count},
	)
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

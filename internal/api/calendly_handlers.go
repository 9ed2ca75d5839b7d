package api

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/calendly"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Calendly Integration Handlers ====================

// ConnectCalendly handles GET /api/v1/company/integrations/calendly/connect
//
// Starts the OAuth flow. The state and initiating user travel in short-lived
// cookies checked by the callback.
func (h *Handler) ConnectCalendly(c *gin.Context) {
	if _, ok := h.companyProfileOr404(c); !ok {
		return
	}
	userID, _ := GetUserID(c)

	state := GenerateState()
	c.SetCookie("calendly_state", state, 300, "/", "", false, true)
	c.SetCookie("calendly_user", userID.String(), 300, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{"auth_url": h.calendlyProvider.GetAuthURL(state)})
}

// CalendlyCallback handles GET /api/v1/integrations/calendly/callback
//
// Calendly redirects here after authorisation; the request carries no JWT,
// so the initiating company is recovered from the cookies set by connect.
func (h *Handler) CalendlyCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	cookieState, _ := c.Cookie("calendly_state")
	if code == "" || state == "" || state != cookieState {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid OAuth state",
			Code:  "INVALID_STATE",
		})
		return
	}

	rawUserID, err := c.Cookie("calendly_user")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Connect flow expired, start again",
			Code:  "INVALID_STATE",
		})
		return
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Connect flow expired, start again",
			Code:  "INVALID_STATE",
		})
		return
	}

	ctx := c.Request.Context()
	profile, err := h.store.GetCompanyProfile(ctx, userID)
	if err != nil || profile == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Company profile not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	token, err := h.calendlyProvider.Exchange(ctx, code)
	if err != nil {
		slog.Error("Calendly OAuth exchange failed", "error", err)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "OAuth exchange failed",
			Code:    "OAUTH_ERROR",
			Details: err.Error(),
		})
		return
	}

	userInfo, err := h.calendlyProvider.GetCurrentUser(ctx, token.AccessToken)
	if err != nil {
		slog.Error("Failed to get Calendly user", "error", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: "Failed to fetch Calendly account",
			Code:  "CALENDLY_ERROR",
		})
		return
	}

	err = h.store.SaveCalendlyCredentials(ctx, profile.ID,
		userInfo.URI, userInfo.SchedulingURL,
		token.AccessToken, token.RefreshToken, token.Expiry)
	if err != nil {
		h.internalError(c, "Failed to save Calendly credentials", err)
		return
	}

	// Register the invitee webhook so bookings flow back automatically.
	if h.config.CalendlyWebhookSecret != "" {
		webhookURL := strings.TrimSuffix(h.config.CalendlyRedirectURL, "/callback") + "/webhook"
		err = h.calendlyProvider.CreateWebhookSubscription(ctx, token.AccessToken,
			webhookURL, userInfo.Organization, userInfo.URI, h.config.CalendlyWebhookSecret)
		if err != nil {
			slog.Error("Failed to create Calendly webhook subscription", "error", err)
		}
	}

	c.Redirect(http.StatusTemporaryRedirect, h.config.FrontendURL+"/settings/integrations?calendly=connected")
}

// DisconnectCalendly handles DELETE /api/v1/company/integrations/calendly
func (h *Handler) DisconnectCalendly(c *gin.Context) {
	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return
	}
	if err := h.store.ClearCalendlyCredentials(c.Request.Context(), profile.ID); err != nil {
		h.internalError(c, "Failed to disconnect Calendly", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Calendly disconnected"})
}

// ListCalendlyEventTypes handles GET /api/v1/company/integrations/calendly/event-types
func (h *Handler) ListCalendlyEventTypes(c *gin.Context) {
	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return
	}
	if !profile.CalendlyConnected() {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Calendly is not connected",
			Code:  "NOT_CONNECTED",
		})
		return
	}

	accessToken, err := h.calendlyAccessToken(c, profile)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "Failed to refresh Calendly access",
			Code:    "CALENDLY_ERROR",
			Details: err.Error(),
		})
		return
	}

	eventTypes, err := h.calendlyProvider.ListEventTypes(c.Request.Context(), accessToken, profile.CalendlyOwnerURI.String)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "Failed to list event types",
			Code:    "CALENDLY_ERROR",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_types": eventTypes})
}

// calendlyAccessToken returns a live access token for the company, refreshing
// and persisting it when the stored one has expired.
func (h *Handler) calendlyAccessToken(c *gin.Context, profile *models.CompanyProfile) (string, error) {
	if profile.CalendlyTokenExpiresAt.Valid && time.Now().Before(profile.CalendlyTokenExpiresAt.Time.Add(-time.Minute)) {
		return profile.CalendlyAccessToken.String, nil
	}

	ctx := c.Request.Context()
	token, err := h.calendlyProvider.RefreshToken(ctx, profile.CalendlyRefreshToken.String)
	if err != nil {
		return "", err
	}
	err = h.store.SaveCalendlyCredentials(ctx, profile.ID,
		profile.CalendlyOwnerURI.String, profile.CalendlySchedulingURL.String,
		token.AccessToken, token.RefreshToken, token.Expiry)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// ==================== Calendly Webhook ====================

// CalendlyWebhook handles POST /api/v1/integrations/calendly/webhook
//
// Bookings made through a company's scheduling link carry the application ID
// in utm_content, which ties the invitee event back to an application.
func (h *Handler) CalendlyWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Failed to read body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	header := c.GetHeader("Calendly-Webhook-Signature")
	if err := calendly.VerifySignature(header, body, h.config.CalendlyWebhookSecret, time.Now()); err != nil {
		slog.Warn("Rejected Calendly webhook", "error", err)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: "Invalid webhook signature",
			Code:  "INVALID_SIGNATURE",
		})
		return
	}

	payload, err := calendly.ParseWebhook(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid webhook payload",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	switch payload.Event {
	case calendly.EventInviteeCreated:
		h.handleInviteeCreated(c, payload)
	case calendly.EventInviteeCanceled:
		h.handleInviteeCanceled(c, payload)
	default:
		slog.Debug("Ignoring Calendly event", "event", payload.Event)
	}

	// Always ack processed deliveries so Calendly does not retry.
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) handleInviteeCreated(c *gin.Context, payload *calendly.WebhookPayload) {
	ctx := c.Request.Context()

	appID, err := uuid.Parse(payload.Payload.Tracking.UTMContent)
	if err != nil {
		slog.Warn("Calendly booking without application reference",
			"invitee", payload.Payload.URI)
		return
	}

	app, err := h.store.GetApplication(ctx, appID)
	if err != nil || app == nil {
		slog.Warn("Calendly booking for unknown application", "application_id", appID)
		return
	}

	// Idempotent: redeliveries of the same event are dropped.
	existing, err := h.store.GetInterviewByCalendlyEvent(ctx, payload.Payload.ScheduledEvent.URI)
	if err != nil || existing != nil {
		return
	}

	job, err := h.store.GetJob(ctx, app.JobID)
	if err != nil || job == nil {
		return
	}

	event := payload.Payload.ScheduledEvent
	duration := int(event.EndTime.Sub(event.StartTime).Minutes())
	var meetingURL *string
	if event.Location.JoinURL != "" {
		meetingURL = &event.Location.JoinURL
	}

	interview, err := h.store.CreateInterview(ctx, app, job.CompanyID, event.StartTime, duration, meetingURL, nil)
	if err != nil {
		slog.Error("Failed to create interview from webhook", "application_id", appID, "error", err)
		return
	}
	if err := h.store.LinkCalendlyEvent(ctx, interview.ID, event.URI, payload.Payload.URI); err != nil {
		slog.Error("Failed to link Calendly event", "interview_id", interview.ID, "error", err)
	}

	if app.Status == models.ApplicationStatusShortlisted {
		if err := h.store.UpdateApplicationStatus(ctx, app.ID, models.ApplicationStatusInterview); err != nil {
			slog.Error("Failed to advance application", "application_id", app.ID, "error", err)
		}
	}

	interview.JobTitle = app.JobTitle
	interview.CompanyName = app.CompanyName
	if grad, err := h.store.GetGraduateProfileByID(ctx, app.GraduateID); err == nil && grad != nil {
		gradEmail := ""
		if app.GraduateEmail.Valid {
			gradEmail = app.GraduateEmail.String
		}
		h.notifier.InterviewScheduled(ctx, grad.UserID, interview, gradEmail)
	}
}

func (h *Handler) handleInviteeCanceled(c *gin.Context, payload *calendly.WebhookPayload) {
	ctx := c.Request.Context()

	interview, err := h.store.GetInterviewByCalendlyEvent(ctx, payload.Payload.ScheduledEvent.URI)
	if err != nil || interview == nil {
		return
	}
	if interview.Status != models.InterviewStatusScheduled {
		return
	}

	if err := h.store.UpdateInterviewStatus(ctx, interview.ID, models.InterviewStatusCanceled); err != nil {
		slog.Error("Failed to cancel interview", "interview_id", interview.ID, "error", err)
		return
	}
	interview.Status = models.InterviewStatusCanceled

	if grad, err := h.store.GetGraduateProfileByID(ctx, interview.GraduateID); err == nil && grad != nil {
		h.notifier.InterviewCanceled(ctx, grad.UserID, interview)
	}
}

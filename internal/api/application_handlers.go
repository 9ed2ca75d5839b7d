package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/store"
)

// ==================== Graduate Application Handlers ====================

// Apply handles POST /api/v1/graduate/applications
func (h *Handler) Apply(c *gin.Context) {
	var req models.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	profile, ok := h.graduateProfileOr404(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	job, err := h.store.GetJob(ctx, req.JobID)
	if err != nil {
		h.internalError(c, "Failed to get job", err)
		return
	}
	if job == nil || job.Status != models.JobStatusOpen {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Job not found or not open",
			Code:  "NOT_FOUND",
		})
		return
	}

	existing, err := h.store.GetApplicationByJobAndGraduate(ctx, job.ID, profile.ID)
	if err != nil {
		h.internalError(c, "Failed to check existing application", err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: "You already applied to this job",
			Code:  "ALREADY_APPLIED",
		})
		return
	}

	app, err := h.store.CreateApplication(ctx, job.ID, profile.ID, req.CoverLetter)
	if err != nil {
		h.internalError(c, "Failed to create application", err)
		return
	}

	// Notify the posting company.
	if company, err := h.store.GetCompanyProfileByID(ctx, job.CompanyID); err == nil && company != nil {
		full, err := h.store.GetApplication(ctx, app.ID)
		if err == nil && full != nil {
			h.notifier.ApplicationReceived(ctx, company.UserID, full)
		}
	}

	c.JSON(http.StatusCreated, app)
}

// ListMyApplications handles GET /api/v1/graduate/applications
func (h *Handler) ListMyApplications(c *gin.Context) {
	profile, ok := h.graduateProfileOr404(c)
	if !ok {
		return
	}
	apps, err := h.store.ListApplicationsByGraduate(c.Request.Context(), profile.ID)
	if err != nil {
		h.internalError(c, "Failed to list applications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

// WithdrawApplication handles POST /api/v1/graduate/applications/:id/withdraw
func (h *Handler) WithdrawApplication(c *gin.Context) {
	appID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	profile, ok := h.graduateProfileOr404(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	app, err := h.store.GetApplication(ctx, appID)
	if err != nil {
		h.internalError(c, "Failed to get application", err)
		return
	}
	if app == nil || app.GraduateID != profile.ID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Application not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	switch app.Status {
	case models.ApplicationStatusHired, models.ApplicationStatusRejected, models.ApplicationStatusWithdrawn:
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: "Application is already closed",
			Code:  "INVALID_TRANSITION",
		})
		return
	}

	if err := h.store.UpdateApplicationStatus(ctx, app.ID, models.ApplicationStatusWithdrawn); err != nil {
		h.internalError(c, "Failed to withdraw application", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application withdrawn"})
}

// ==================== Company Application Handlers ====================

// ListJobApplications handles GET /api/v1/company/jobs/:id/applications
func (h *Handler) ListJobApplications(c *gin.Context) {
	job, ok := h.ownedJobOr404(c)
	if !ok {
		return
	}
	apps, err := h.store.ListApplicationsByJob(c.Request.Context(), job.ID)
	if err != nil {
		h.internalError(c, "Failed to list applications", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

// UpdateApplicationStatus handles PUT /api/v1/company/applications/:id/status
//
// Moves the application along the pipeline. Invalid transitions are rejected.
// On rejection the company can request AI feedback for the graduate.
func (h *Handler) UpdateApplicationStatus(c *gin.Context) {
	var req models.ApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	app, job, ok := h.companyApplicationOr404(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if !models.CanTransitionApplication(app.Status, req.Status) {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: "Cannot move application from " + app.Status + " to " + req.Status,
			Code:  "INVALID_TRANSITION",
		})
		return
	}

	if err := h.store.UpdateApplicationStatus(ctx, app.ID, req.Status); err != nil {
		h.internalError(c, "Failed to update status", err)
		return
	}
	app.Status = req.Status

	if req.Status == models.ApplicationStatusRejected && req.GenerateFeedback && h.geminiClient != nil {
		h.generateRejectionFeedback(c, app, job)
	}

	if grad, err := h.store.GetGraduateProfileByID(ctx, app.GraduateID); err == nil && grad != nil {
		h.notifier.ApplicationStatusChanged(ctx, grad.UserID, app)
	}

	c.JSON(http.StatusOK, app)
}

// generateRejectionFeedback asks Gemini for constructive feedback and stores
// it on the application. Failures only log; the rejection stands either way.
func (h *Handler) generateRejectionFeedback(c *gin.Context, app *models.Application, job *models.Job) {
	ctx := c.Request.Context()
	grad, err := h.store.GetGraduateProfileByID(ctx, app.GraduateID)
	if err != nil || grad == nil {
		return
	}

	education := ""
	if grad.EducationLevel.Valid {
		education = grad.EducationLevel.String
	}
	jobEducation := ""
	if job.EducationLevel.Valid {
		jobEducation = job.EducationLevel.String
	}

	feedback, err := h.geminiClient.GenerateFeedback(ctx, grad.Skills, education, job.Skills, job.Title, jobEducation)
	if err != nil {
		slog.Error("Failed to generate application feedback", "application_id", app.ID, "error", err)
		return
	}
	if err := h.store.UpdateApplicationFeedback(ctx, app.ID, feedback.Feedback); err != nil {
		slog.Error("Failed to store application feedback", "application_id", app.ID, "error", err)
		return
	}
	app.Feedback.String = feedback.Feedback
	app.Feedback.Valid = true
}

// companyApplicationOr404 loads the application in :id and verifies the
// caller's company owns the job it belongs to.
func (h *Handler) companyApplicationOr404(c *gin.Context) (*models.Application, *models.Job, bool) {
	appID, ok := parseIDParam(c, "id")
	if !ok {
		return nil, nil, false
	}
	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return nil, nil, false
	}
	ctx := c.Request.Context()

	app, err := h.store.GetApplication(ctx, appID)
	if err != nil {
		h.internalError(c, "Failed to get application", err)
		return nil, nil, false
	}
	if app == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Application not found",
			Code:  "NOT_FOUND",
		})
		return nil, nil, false
	}

	job, err := h.store.GetJob(ctx, app.JobID)
	if err != nil {
		h.internalError(c, "Failed to get job", err)
		return nil, nil, false
	}
	if job == nil || job.CompanyID != profile.ID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Application not found",
			Code:  "NOT_FOUND",
		})
		return nil, nil, false
	}
	return app, job, true
}

// ==================== Offer Handlers ====================

// CreateOffer handles POST /api/v1/company/offers
//
// Requires the application to be in the offered stage.
func (h *Handler) CreateOffer(c *gin.Context) {
	var req models.OfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	app, err := h.store.GetApplication(ctx, req.ApplicationID)
	if err != nil {
		h.internalError(c, "Failed to get application", err)
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Application not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	job, err := h.store.GetJob(ctx, app.JobID)
	if err != nil {
		h.internalError(c, "Failed to get job", err)
		return
	}
	if job == nil || job.CompanyID != profile.ID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Application not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	if app.Status != models.ApplicationStatusOffered {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: "Move the application to offered before extending an offer",
			Code:  "INVALID_TRANSITION",
		})
		return
	}

	offer, err := h.store.CreateOffer(ctx, app, profile.ID, &req)
	if err != nil {
		if errors.Is(err, store.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Dates must be YYYY-MM-DD or RFC 3339",
				Code:    "INVALID_DATE",
				Details: err.Error(),
			})
			return
		}
		h.internalError(c, "Failed to create offer", err)
		return
	}

	if grad, err := h.store.GetGraduateProfileByID(ctx, app.GraduateID); err == nil && grad != nil {
		offer.JobTitle = app.JobTitle
		offer.CompanyName = app.CompanyName
		gradEmail := ""
		if app.GraduateEmail.Valid {
			gradEmail = app.GraduateEmail.String
		}
		h.notifier.OfferExtended(ctx, grad.UserID, offer, gradEmail)
	}

	c.JSON(http.StatusCreated, offer)
}

// ListCompanyOffers handles GET /api/v1/company/offers
func (h *Handler) ListCompanyOffers(c *gin.Context) {
	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return
	}
	offers, err := h.store.ListOffersByCompany(c.Request.Context(), profile.ID)
	if err != nil {
		h.internalError(c, "Failed to list offers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers, "total": len(offers)})
}

// WithdrawOffer handles POST /api/v1/company/offers/:id/withdraw
func (h *Handler) WithdrawOffer(c *gin.Context) {
	offerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	offer, err := h.store.GetOffer(ctx, offerID)
	if err != nil {
		h.internalError(c, "Failed to get offer", err)
		return
	}
	if offer == nil || offer.CompanyID != profile.ID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Offer not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	if offer.Status != models.OfferStatusPending {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: "Only pending offers can be withdrawn",
			Code:  "INVALID_TRANSITION",
		})
		return
	}

	if err := h.store.UpdateOfferStatus(ctx, offer.ID, models.OfferStatusWithdrawn); err != nil {
		h.internalError(c, "Failed to withdraw offer", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Offer withdrawn"})
}

// ListMyOffers handles GET /api/v1/graduate/offers
func (h *Handler) ListMyOffers(c *gin.Context) {
	profile, ok := h.graduateProfileOr404(c)
	if !ok {
		return
	}
	offers, err := h.store.ListOffersByGraduate(c.Request.Context(), profile.ID)
	if err != nil {
		h.internalError(c, "Failed to list offers", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers, "total": len(offers)})
}

// RespondToOffer handles POST /api/v1/graduate/offers/:id/accept and /decline.
// Accepting marks the application as hired; the expiry deadline is enforced
// at response time.
func (h *Handler) RespondToOffer(accept bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		offerID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		profile, ok := h.graduateProfileOr404(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		offer, err := h.store.GetOffer(ctx, offerID)
		if err != nil {
			h.internalError(c, "Failed to get offer", err)
			return
		}
		if offer == nil || offer.GraduateID != profile.ID {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Offer not found",
				Code:  "NOT_FOUND",
			})
			return
		}
		if offer.Status != models.OfferStatusPending {
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error: "Offer already " + offer.Status,
				Code:  "INVALID_TRANSITION",
			})
			return
		}
		if offer.Expired(time.Now()) {
			if err := h.store.UpdateOfferStatus(ctx, offer.ID, models.OfferStatusExpired); err != nil {
				slog.Error("Failed to expire offer", "offer_id", offer.ID, "error", err)
			}
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error: "Offer has expired",
				Code:  "OFFER_EXPIRED",
			})
			return
		}

		status := models.OfferStatusDeclined
		if accept {
			status = models.OfferStatusAccepted
		}
		if err := h.store.UpdateOfferStatus(ctx, offer.ID, status); err != nil {
			h.internalError(c, "Failed to update offer", err)
			return
		}
		offer.Status = status

		if accept {
			if err := h.store.UpdateApplicationStatus(ctx, offer.ApplicationID, models.ApplicationStatusHired); err != nil {
				slog.Error("Failed to mark application hired", "application_id", offer.ApplicationID, "error", err)
			}
		}

		if company, err := h.store.GetCompanyProfileByID(ctx, offer.CompanyID); err == nil && company != nil {
			h.notifier.OfferResponded(ctx, company.UserID, offer)
		}

		c.JSON(http.StatusOK, offer)
	}
}

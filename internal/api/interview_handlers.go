package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Interview Handlers ====================

// ScheduleInterview handles POST /api/v1/company/interviews
//
// Directly schedules an interview for an application in the interview stage.
// Interviews booked through Calendly arrive via the webhook instead.
func (h *Handler) ScheduleInterview(c *gin.Context) {
	var req models.InterviewRequest
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
	if app.Status != models.ApplicationStatusInterview {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: "Move the application to interview before scheduling",
			Code:  "INVALID_TRANSITION",
		})
		return
	}

	interview, err := h.store.CreateInterview(ctx, app, profile.ID, req.ScheduledAt, req.DurationMinutes, req.MeetingURL, req.Notes)
	if err != nil {
		h.internalError(c, "Failed to create interview", err)
		return
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

	c.JSON(http.StatusCreated, interview)
}

// UpdateInterview handles PUT /api/v1/company/interviews/:id
func (h *Handler) UpdateInterview(c *gin.Context) {
	var req models.InterviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}
	if req.Status != nil && !validInterviewStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid interview status",
			Code:  "INVALID_STATUS",
		})
		return
	}

	interview, ok := h.ownedInterviewOr404(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	updated, err := h.store.UpdateInterview(ctx, interview.ID, &req)
	if err != nil {
		h.internalError(c, "Failed to update interview", err)
		return
	}

	if req.Status != nil && *req.Status == models.InterviewStatusCanceled {
		updated.JobTitle = interview.JobTitle
		if grad, err := h.store.GetGraduateProfileByID(ctx, interview.GraduateID); err == nil && grad != nil {
			h.notifier.InterviewCanceled(ctx, grad.UserID, updated)
		}
	}

	c.JSON(http.StatusOK, updated)
}

// ListCompanyInterviews handles GET /api/v1/company/interviews
func (h *Handler) ListCompanyInterviews(c *gin.Context) {
	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return
	}
	interviews, err := h.store.ListInterviewsByCompany(c.Request.Context(), profile.ID)
	if err != nil {
		h.internalError(c, "Failed to list interviews", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": interviews, "total": len(interviews)})
}

// ListMyInterviews handles GET /api/v1/graduate/interviews
func (h *Handler) ListMyInterviews(c *gin.Context) {
	profile, ok := h.graduateProfileOr404(c)
	if !ok {
		return
	}
	interviews, err := h.store.ListInterviewsByGraduate(c.Request.Context(), profile.ID)
	if err != nil {
		h.internalError(c, "Failed to list interviews", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"interviews": interviews, "total": len(interviews)})
}

// ownedInterviewOr404 loads the interview in :id owned by the caller's company.
func (h *Handler) ownedInterviewOr404(c *gin.Context) (*models.Interview, bool) {
	interviewID, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return nil, false
	}

	interview, err := h.store.GetInterview(c.Request.Context(), interviewID)
	if err != nil {
		h.internalError(c, "Failed to get interview", err)
		return nil, false
	}
	if interview == nil || interview.CompanyID != profile.ID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Interview not found",
			Code:  "NOT_FOUND",
		})
		return nil, false
	}
	return interview, true
}

func validInterviewStatus(status string) bool {
	switch status {
	case models.InterviewStatusScheduled, models.InterviewStatusCompleted,
		models.InterviewStatusCanceled, models.InterviewStatusNoShow:
		return true
	}
	return false
}

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Public Job Handlers ====================

// ListJobs handles GET /api/v1/jobs
//
// Public listing; only open jobs are visible.
func (h *Handler) ListJobs(c *gin.Context) {
	filter := &models.JobFilter{
		Query:          c.Query("q"),
		Location:       c.Query("location"),
		EmploymentType: c.Query("employment_type"),
		Status:         models.JobStatusOpen,
		Limit:          queryInt(c, "limit", 20),
		Offset:         queryInt(c, "offset", 0),
	}
	if skills := c.Query("skills"); skills != "" {
		for _, s := range strings.Split(skills, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Skills = append(filter.Skills, s)
			}
		}
	}
	if min := queryInt(c, "salary_min", 0); min > 0 {
		filter.SalaryMin = min
	}

	jobs, total, err := h.store.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.internalError(c, "Failed to list jobs", err)
		return
	}
	c.JSON(http.StatusOK, models.JobListResponse{
		Jobs:   jobs,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// GetJob handles GET /api/v1/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	job, err := h.store.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.internalError(c, "Failed to get job", err)
		return
	}
	if job == nil || job.Status != models.JobStatusOpen {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Job not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, job)
}

// ==================== Company Job Handlers ====================

// ListCompanyJobs handles GET /api/v1/company/jobs
//
// Lists the caller's own jobs in any status.
func (h *Handler) ListCompanyJobs(c *gin.Context) {
	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return
	}

	filter := &models.JobFilter{
		CompanyID: profile.ID,
		Status:    c.Query("status"),
		Limit:     queryInt(c, "limit", 50),
		Offset:    queryInt(c, "offset", 0),
	}
	jobs, total, err := h.store.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.internalError(c, "Failed to list jobs", err)
		return
	}
	c.JSON(http.StatusOK, models.JobListResponse{
		Jobs:   jobs,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// CreateJob handles POST /api/v1/company/jobs
func (h *Handler) CreateJob(c *gin.Context) {
	var req models.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}
	if req.Status != nil && !validJobStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid job status",
			Code:  "INVALID_STATUS",
		})
		return
	}

	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return
	}

	job, err := h.store.CreateJob(c.Request.Context(), profile.ID, &req)
	if err != nil {
		h.internalError(c, "Failed to create job", err)
		return
	}

	h.embedJob(c, job)
	c.JSON(http.StatusCreated, job)
}

// UpdateJob handles PUT /api/v1/company/jobs/:id
func (h *Handler) UpdateJob(c *gin.Context) {
	var req models.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}
	if req.Status != nil && !validJobStatus(*req.Status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid job status",
			Code:  "INVALID_STATUS",
		})
		return
	}

	job, ok := h.ownedJobOr404(c)
	if !ok {
		return
	}

	updated, err := h.store.UpdateJob(c.Request.Context(), job.ID, &req)
	if err != nil {
		h.internalError(c, "Failed to update job", err)
		return
	}

	// The posting text changed; stale matches for a closed job are dropped.
	h.embedJob(c, updated)
	if updated.Status == models.JobStatusClosed {
		if err := h.store.DeleteMatchesByJob(c.Request.Context(), updated.ID); err != nil {
			slog.Error("Failed to drop matches for closed job", "job_id", updated.ID, "error", err)
		}
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteJob handles DELETE /api/v1/company/jobs/:id
func (h *Handler) DeleteJob(c *gin.Context) {
	job, ok := h.ownedJobOr404(c)
	if !ok {
		return
	}
	if err := h.store.DeleteJob(c.Request.Context(), job.ID); err != nil {
		h.internalError(c, "Failed to delete job", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted"})
}

// ownedJobOr404 loads the job in the :id parameter and verifies the caller's
// company owns it.
func (h *Handler) ownedJobOr404(c *gin.Context) (*models.Job, bool) {
	jobID, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	profile, ok := h.companyProfileOr404(c)
	if !ok {
		return nil, false
	}

	job, err := h.store.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.internalError(c, "Failed to get job", err)
		return nil, false
	}
	if job == nil || job.CompanyID != profile.ID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Job not found",
			Code:  "NOT_FOUND",
		})
		return nil, false
	}
	return job, true
}

func (h *Handler) embedJob(c *gin.Context, job *models.Job) {
	if h.aiClient == nil {
		return
	}
	embedding, err := h.aiClient.Embed(c.Request.Context(), jobEmbeddingText(job))
	if err != nil {
		slog.Error("Failed to embed job", "job_id", job.ID, "error", err)
		return
	}
	if err := h.store.UpdateJobEmbedding(c.Request.Context(), job.ID, embedding); err != nil {
		slog.Error("Failed to store job embedding", "job_id", job.ID, "error", err)
	}
}

// jobEmbeddingText flattens the posting into one text for embedding.
func jobEmbeddingText(job *models.Job) string {
	parts := []string{job.Title, job.Description}
	if len(job.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(job.Skills, ", "))
	}
	if job.EducationLevel.Valid {
		parts = append(parts, "Education: "+job.EducationLevel.String)
	}
	if job.ExperienceYears.Valid {
		parts = append(parts, fmt.Sprintf("Experience: %.1f years", job.ExperienceYears.Float64))
	}
	if job.Location.Valid {
		parts = append(parts, "Location: "+job.Location.String)
	}
	return strings.Join(parts, "\n")
}

func validJobStatus(status string) bool {
	switch status {
	case models.JobStatusDraft, models.JobStatusOpen, models.JobStatusClosed:
		return true
	}
	return false
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			return v
		}
	}
	return fallback
}

package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Graduate Profile Handlers ====================

// GetGraduateProfile handles GET /api/v1/graduate/profile
func (h *Handler) GetGraduateProfile(c *gin.Context) {
	userID, _ := GetUserID(c)
	profile, err := h.store.GetGraduateProfile(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to get profile", err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Profile not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateGraduateProfile handles PUT /api/v1/graduate/profile
//
// Creates the profile on first call. When the embedding service is
// configured the profile text is re-embedded after every update so match
// scores track the latest data.
func (h *Handler) UpdateGraduateProfile(c *gin.Context) {
	var req models.GraduateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	userID, _ := GetUserID(c)
	profile, err := h.store.UpsertGraduateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.internalError(c, "Failed to update profile", err)
		return
	}

	h.embedGraduateProfile(c, profile)
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) embedGraduateProfile(c *gin.Context, profile *models.GraduateProfile) {
	if h.aiClient == nil {
		return
	}
	text := graduateEmbeddingText(profile)
	if text == "" {
		return
	}
	embedding, err := h.aiClient.Embed(c.Request.Context(), text)
	if err != nil {
		slog.Error("Failed to embed graduate profile", "profile_id", profile.ID, "error", err)
		return
	}
	if err := h.store.UpdateGraduateEmbedding(c.Request.Context(), profile.ID, embedding); err != nil {
		slog.Error("Failed to store graduate embedding", "profile_id", profile.ID, "error", err)
	}
}

// graduateEmbeddingText flattens the searchable profile fields into one text.
func graduateEmbeddingText(p *models.GraduateProfile) string {
	parts := []string{}
	if p.Headline.Valid {
		parts = append(parts, p.Headline.String)
	}
	if p.Summary.Valid {
		parts = append(parts, p.Summary.String)
	}
	if len(p.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(p.Skills, ", "))
	}
	if p.EducationLevel.Valid {
		parts = append(parts, "Education: "+p.EducationLevel.String)
	}
	if p.FieldOfStudy.Valid {
		parts = append(parts, "Field of study: "+p.FieldOfStudy.String)
	}
	if p.ExperienceYears.Valid {
		parts = append(parts, fmt.Sprintf("Experience: %.1f years", p.ExperienceYears.Float64))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// ==================== Assessment Handlers ====================

// GenerateAssessment handles POST /api/v1/graduate/assessments
//
// Generates a fresh multiple-choice question set for the graduate's skills.
// Question sets vary per attempt so retakes are not memorisable.
func (h *Handler) GenerateAssessment(c *gin.Context) {
	userID, _ := GetUserID(c)
	ctx := c.Request.Context()

	profile, err := h.store.GetGraduateProfile(ctx, userID)
	if err != nil {
		h.internalError(c, "Failed to get profile", err)
		return
	}
	if profile == nil || len(profile.Skills) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Add skills to your profile before taking an assessment",
			Code:  "NO_SKILLS",
		})
		return
	}

	// Hand back the open attempt instead of generating a parallel one.
	pending, err := h.store.GetLatestPendingAssessment(ctx, profile.ID)
	if err != nil {
		h.internalError(c, "Failed to check pending assessments", err)
		return
	}
	if pending != nil {
		h.respondWithAssessment(c, http.StatusOK, pending)
		return
	}

	var attempt int
	history, err := h.store.ListAssessmentsByGraduate(ctx, profile.ID)
	if err != nil {
		h.internalError(c, "Failed to list assessments", err)
		return
	}
	attempt = len(history) + 1

	questions, err := h.geminiClient.GenerateAssessmentQuestions(ctx, profile.Skills, attempt, 5)
	if err != nil {
		slog.Error("Failed to generate assessment questions", "error", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error: "Question generation is temporarily unavailable",
			Code:  "GENERATION_FAILED",
		})
		return
	}

	raw, err := json.Marshal(questions)
	if err != nil {
		h.internalError(c, "Failed to encode questions", err)
		return
	}

	assessment, err := h.store.CreateAssessment(ctx, profile.ID, profile.Skills, raw)
	if err != nil {
		h.internalError(c, "Failed to store assessment", err)
		return
	}

	h.respondWithAssessment(c, http.StatusCreated, assessment)
}

// GetPendingAssessment handles GET /api/v1/graduate/assessments/pending
func (h *Handler) GetPendingAssessment(c *gin.Context) {
	userID, _ := GetUserID(c)
	profile, err := h.store.GetGraduateProfile(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to get profile", err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Profile not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	assessment, err := h.store.GetLatestPendingAssessment(c.Request.Context(), profile.ID)
	if err != nil {
		h.internalError(c, "Failed to get assessment", err)
		return
	}
	if assessment == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "No pending assessment",
			Code:  "NOT_FOUND",
		})
		return
	}
	h.respondWithAssessment(c, http.StatusOK, assessment)
}

// SubmitAssessment handles POST /api/v1/graduate/assessments/:id/submit
//
// Grades the submission against the stored answer key and records the score
// on the graduate's profile.
func (h *Handler) SubmitAssessment(c *gin.Context) {
	var req models.AssessmentSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	assessmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID, _ := GetUserID(c)
	ctx := c.Request.Context()

	profile, err := h.store.GetGraduateProfile(ctx, userID)
	if err != nil {
		h.internalError(c, "Failed to get profile", err)
		return
	}

	assessment, err := h.store.GetAssessment(ctx, assessmentID)
	if err != nil {
		h.internalError(c, "Failed to get assessment", err)
		return
	}
	if assessment == nil || profile == nil || assessment.GraduateID != profile.ID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Assessment not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	if assessment.CompletedAt.Valid {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error: "Assessment already submitted",
			Code:  "ALREADY_SUBMITTED",
		})
		return
	}

	var questions []models.AssessmentQuestion
	if err := json.Unmarshal(assessment.Questions, &questions); err != nil {
		h.internalError(c, "Failed to decode questions", err)
		return
	}
	if len(req.Answers) != len(questions) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("Expected %d answers, got %d", len(questions), len(req.Answers)),
			Code:  "INVALID_SUBMISSION",
		})
		return
	}

	correct := 0
	for i, q := range questions {
		if strings.EqualFold(strings.TrimSpace(req.Answers[i]), strings.TrimSpace(q.Answer)) {
			correct++
		}
	}
	score := float64(correct) / float64(len(questions)) * 100

	if _, err := h.store.CompleteAssessment(ctx, assessment.ID, score); err != nil {
		h.internalError(c, "Failed to complete assessment", err)
		return
	}
	if err := h.store.UpdateGraduateAssessmentScore(ctx, profile.ID, score); err != nil {
		slog.Error("Failed to record assessment score", "profile_id", profile.ID, "error", err)
	}

	c.JSON(http.StatusOK, models.AssessmentResult{
		AssessmentID: assessment.ID,
		Score:        score,
		Correct:      correct,
		Total:        len(questions),
	})
}

// respondWithAssessment strips answer keys before sending questions out.
func (h *Handler) respondWithAssessment(c *gin.Context, status int, assessment *models.Assessment) {
	var questions []models.AssessmentQuestion
	if err := json.Unmarshal(assessment.Questions, &questions); err != nil {
		h.internalError(c, "Failed to decode questions", err)
		return
	}
	public := make([]models.PublicQuestion, len(questions))
	for i, q := range questions {
		public[i] = models.PublicQuestion{
			Question: q.Question,
			Options:  q.Options,
			Skill:    q.Skill,
		}
	}
	c.JSON(status, gin.H{
		"assessment": assessment,
		"questions":  public,
	})
}

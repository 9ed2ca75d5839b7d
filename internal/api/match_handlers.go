package api

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/matcher"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Match Handlers ====================

// ComputeMatches handles POST /api/v1/graduate/matches/compute
//
// Scores the graduate against every open job with an embedding and persists
// the results. The optional body tunes min score, limit and factor weights.
func (h *Handler) ComputeMatches(c *gin.Context) {
	var req models.MatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "Invalid request body",
				Code:    "INVALID_REQUEST",
				Details: err.Error(),
			})
			return
		}
	}

	profile, ok := h.graduateProfileOr404(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if len(profile.Embedding) == 0 {
		// First compute after signup: embed on demand when possible.
		h.embedGraduateProfile(c, profile)
		refreshed, err := h.store.GetGraduateProfileByID(ctx, profile.ID)
		if err == nil && refreshed != nil {
			profile = refreshed
		}
	}
	if len(profile.Embedding) == 0 {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: "Complete your profile before computing matches",
			Code:  "NO_EMBEDDING",
		})
		return
	}

	jobs, err := h.store.ListOpenJobsWithEmbeddings(ctx)
	if err != nil {
		h.internalError(c, "Failed to list jobs", err)
		return
	}

	inputs := make([]matcher.JobInput, 0, len(jobs))
	for _, job := range jobs {
		inputs = append(inputs, matcher.JobInput{
			ID:              job.ID.String(),
			Embedding:       job.Embedding,
			Skills:          job.Skills,
			Education:       nullString(job.EducationLevel),
			ExperienceYears: nullFloat(job.ExperienceYears),
			UpdatedAt:       job.UpdatedAt,
		})
	}

	candidate := matcher.Candidate{
		Embedding:       profile.Embedding,
		Skills:          profile.Skills,
		Education:       nullString(profile.EducationLevel),
		ExperienceYears: nullFloat(profile.ExperienceYears),
	}
	opts := matcher.Options{
		MinScore: req.MinScore,
		Limit:    req.Limit,
		Weights:  req.Weights,
	}

	results, err := h.matchEngine.Compute(candidate, inputs, opts)
	if err != nil {
		h.internalError(c, "Failed to compute matches", err)
		return
	}

	for _, result := range results {
		jobID, err := uuid.Parse(result.ID)
		if err != nil {
			continue
		}
		factors, err := json.Marshal(result.Factors)
		if err != nil {
			factors = nil
		}
		if _, err := h.store.UpsertMatch(ctx, profile.ID, jobID, result.Score, factors); err != nil {
			slog.Error("Failed to persist match", "job_id", jobID, "error", err)
		}
	}

	userID, _ := GetUserID(c)
	h.notifier.MatchesReady(ctx, userID, len(results))

	minScore := req.MinScore
	if minScore <= 0 {
		minScore = h.config.MatchMinScore
	}
	limit := req.Limit
	if limit <= 0 {
		limit = h.config.MatchMaxResults
	}
	matches, err := h.store.ListMatchesByGraduate(ctx, profile.ID, minScore, limit)
	if err != nil {
		h.internalError(c, "Failed to list matches", err)
		return
	}

	c.JSON(http.StatusOK, models.MatchResponse{
		Matches:   matches,
		Total:     len(matches),
		MatchedAt: time.Now(),
	})
}

// ListMatches handles GET /api/v1/graduate/matches
func (h *Handler) ListMatches(c *gin.Context) {
	profile, ok := h.graduateProfileOr404(c)
	if !ok {
		return
	}

	matches, err := h.store.ListMatchesByGraduate(c.Request.Context(), profile.ID,
		h.config.MatchMinScore, queryInt(c, "limit", h.config.MatchMaxResults))
	if err != nil {
		h.internalError(c, "Failed to list matches", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches, "total": len(matches)})
}

// ListJobCandidates handles GET /api/v1/company/jobs/:id/candidates
//
// Returns stored match scores for the job, best candidates first.
func (h *Handler) ListJobCandidates(c *gin.Context) {
	job, ok := h.ownedJobOr404(c)
	if !ok {
		return
	}

	matches, err := h.store.ListMatchesByJob(c.Request.Context(), job.ID,
		h.config.MatchMinScore, queryInt(c, "limit", h.config.MatchMaxResults))
	if err != nil {
		h.internalError(c, "Failed to list candidates", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": matches, "total": len(matches)})
}

// RecomputeJobCandidates handles POST /api/v1/company/jobs/:id/candidates/recompute
//
// Scores every embedded graduate against this job and refreshes the stored
// matches.
func (h *Handler) RecomputeJobCandidates(c *gin.Context) {
	job, ok := h.ownedJobOr404(c)
	if !ok {
		return
	}
	if len(job.Embedding) == 0 {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: "Job has no embedding yet",
			Code:  "NO_EMBEDDING",
		})
		return
	}
	ctx := c.Request.Context()

	graduates, err := h.store.ListGraduatesWithEmbeddings(ctx)
	if err != nil {
		h.internalError(c, "Failed to list graduates", err)
		return
	}

	input := []matcher.JobInput{{
		ID:              job.ID.String(),
		Embedding:       job.Embedding,
		Skills:          job.Skills,
		Education:       nullString(job.EducationLevel),
		ExperienceYears: nullFloat(job.ExperienceYears),
		UpdatedAt:       job.UpdatedAt,
	}}

	updated := 0
	for _, grad := range graduates {
		candidate := matcher.Candidate{
			Embedding:       grad.Embedding,
			Skills:          grad.Skills,
			Education:       nullString(grad.EducationLevel),
			ExperienceYears: nullFloat(grad.ExperienceYears),
		}
		results, err := h.matchEngine.Compute(candidate, input, matcher.Options{})
		if err != nil {
			slog.Warn("Skipping graduate in recompute", "graduate_id", grad.ID, "error", err)
			continue
		}
		if len(results) == 0 {
			continue
		}
		factors, err := json.Marshal(results[0].Factors)
		if err != nil {
			factors = nil
		}
		if _, err := h.store.UpsertMatch(ctx, grad.ID, job.ID, results[0].Score, factors); err != nil {
			slog.Error("Failed to persist match", "graduate_id", grad.ID, "error", err)
			continue
		}
		updated++
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated, "graduates_scored": len(graduates)})
}

// ==================== Null Helpers ====================

func nullString(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}

func nullFloat(v sql.NullFloat64) *float64 {
	if v.Valid {
		f := v.Float64
		return &f
	}
	return nil
}

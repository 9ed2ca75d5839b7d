package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Company Profile Handlers ====================

// GetCompanyProfile handles GET /api/v1/company/profile
func (h *Handler) GetCompanyProfile(c *gin.Context) {
	userID, _ := GetUserID(c)
	profile, err := h.store.GetCompanyProfile(c.Request.Context(), userID)
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
	c.JSON(http.StatusOK, gin.H{
		"profile":            profile,
		"calendly_connected": profile.CalendlyConnected(),
	})
}

// UpdateCompanyProfile handles PUT /api/v1/company/profile
func (h *Handler) UpdateCompanyProfile(c *gin.Context) {
	var req models.CompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	userID, _ := GetUserID(c)
	profile, err := h.store.UpsertCompanyProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.internalError(c, "Failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// companyProfileOr404 loads the caller's company profile, writing the error
// response when it is missing.
func (h *Handler) companyProfileOr404(c *gin.Context) (*models.CompanyProfile, bool) {
	userID, _ := GetUserID(c)
	profile, err := h.store.GetCompanyProfile(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to get company profile", err)
		return nil, false
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Create a company profile first",
			Code:  "NO_PROFILE",
		})
		return nil, false
	}
	return profile, true
}

// graduateProfileOr404 loads the caller's graduate profile, writing the error
// response when it is missing.
func (h *Handler) graduateProfileOr404(c *gin.Context) (*models.GraduateProfile, bool) {
	userID, _ := GetUserID(c)
	profile, err := h.store.GetGraduateProfile(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to get graduate profile", err)
		return nil, false
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Create a graduate profile first",
			Code:  "NO_PROFILE",
		})
		return nil, false
	}
	return profile, true
}

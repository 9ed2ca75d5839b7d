package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Admin Handlers ====================

// AdminListUsers handles GET /api/v1/admin/users
func (h *Handler) AdminListUsers(c *gin.Context) {
	role := c.Query("role")
	if role != "" && role != models.RoleGraduate && role != models.RoleCompany && role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid role filter",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	users, total, err := h.store.ListUsers(c.Request.Context(), role, c.Query("q"),
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		h.internalError(c, "Failed to list users", err)
		return
	}

	responses := make([]models.UserResponse, len(users))
	for i := range users {
		responses[i] = users[i].ToResponse()
	}
	c.JSON(http.StatusOK, gin.H{"users": responses, "total": total})
}

// AdminSetUserStatus returns a handler that suspends or reactivates a user.
// Suspension also revokes every open session.
func (h *Handler) AdminSetUserStatus(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		user, err := h.store.GetUserByID(ctx, userID)
		if err != nil {
			h.internalError(c, "Failed to get user", err)
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "User not found",
				Code:  "NOT_FOUND",
			})
			return
		}
		if user.Role == models.RoleAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Error: "Admin accounts cannot be modified here",
				Code:  "FORBIDDEN",
			})
			return
		}

		if err := h.store.UpdateUserStatus(ctx, userID, status); err != nil {
			h.internalError(c, "Failed to update user status", err)
			return
		}
		if status == models.UserStatusSuspended {
			if err := h.store.RevokeAllUserSessions(ctx, userID); err != nil {
				h.internalError(c, "Failed to revoke sessions", err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": "User " + status})
	}
}

// AdminDeleteUser handles DELETE /api/v1/admin/users/:id
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.store.GetUserByID(ctx, userID)
	if err != nil {
		h.internalError(c, "Failed to get user", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "User not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	if user.Role == models.RoleAdmin {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error: "Admin accounts cannot be deleted here",
			Code:  "FORBIDDEN",
		})
		return
	}

	if err := h.store.DeleteUser(ctx, userID); err != nil {
		h.internalError(c, "Failed to delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// AdminStats handles GET /api/v1/admin/stats
func (h *Handler) AdminStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.store.GetPlatformStats(ctx)
	if err != nil {
		h.internalError(c, "Failed to gather stats", err)
		return
	}
	signups, err := h.store.SignupsByWeek(ctx, queryInt(c, "weeks", 12))
	if err != nil {
		h.internalError(c, "Failed to gather signup series", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "signups_by_week": signups})
}

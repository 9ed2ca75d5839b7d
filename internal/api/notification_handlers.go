package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Notification Handlers ====================

// ListNotifications handles GET /api/v1/notifications
func (h *Handler) ListNotifications(c *gin.Context) {
	userID, _ := GetUserID(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, total, unread, err := h.store.ListNotifications(
		c.Request.Context(), userID, unreadOnly,
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		h.internalError(c, "Failed to list notifications", err)
		return
	}
	c.JSON(http.StatusOK, models.NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		UnreadCount:   unread,
	})
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	notifID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	if err := h.store.MarkNotificationRead(c.Request.Context(), notifID, userID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Notification not found or already read",
			Code:  "NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// MarkAllNotificationsRead handles POST /api/v1/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	userID, _ := GetUserID(c)
	n, err := h.store.MarkAllNotificationsRead(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, "Failed to mark notifications read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": n})
}

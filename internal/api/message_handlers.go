package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
)

// ==================== Messaging Handlers ====================

// ListConversations handles GET /api/v1/conversations
func (h *Handler) ListConversations(c *gin.Context) {
	userID, _ := GetUserID(c)
	ctx := c.Request.Context()

	conversations, err := h.store.ListConversations(ctx, userID)
	if err != nil {
		h.internalError(c, "Failed to list conversations", err)
		return
	}
	unread, err := h.store.TotalUnreadMessages(ctx, userID)
	if err != nil {
		h.internalError(c, "Failed to count unread messages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"total":         len(conversations),
		"unread":        unread,
	})
}

// SendMessage handles POST /api/v1/messages
//
// The recipient is the other party's user account; the conversation between
// the graduate and the company is created on first contact.
func (h *Handler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Code:    "INVALID_REQUEST",
			Details: err.Error(),
		})
		return
	}

	userID, _ := GetUserID(c)
	ctx := c.Request.Context()

	sender, err := h.store.GetUserByID(ctx, userID)
	if err != nil {
		h.internalError(c, "Failed to look up sender", err)
		return
	}
	recipient, err := h.store.GetUserByID(ctx, req.RecipientID)
	if err != nil {
		h.internalError(c, "Failed to look up recipient", err)
		return
	}
	if sender == nil || recipient == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Recipient not found",
			Code:  "NOT_FOUND",
		})
		return
	}

	// Conversations always pair one graduate with one company.
	var graduateUserID, companyUserID uuid.UUID
	switch {
	case sender.Role == models.RoleGraduate && recipient.Role == models.RoleCompany:
		graduateUserID, companyUserID = sender.ID, recipient.ID
	case sender.Role == models.RoleCompany && recipient.Role == models.RoleGraduate:
		graduateUserID, companyUserID = recipient.ID, sender.ID
	default:
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: "Messages flow between a graduate and a company",
			Code:  "INVALID_RECIPIENT",
		})
		return
	}

	gradProfile, err := h.store.GetGraduateProfile(ctx, graduateUserID)
	if err != nil {
		h.internalError(c, "Failed to get graduate profile", err)
		return
	}
	companyProfile, err := h.store.GetCompanyProfile(ctx, companyUserID)
	if err != nil {
		h.internalError(c, "Failed to get company profile", err)
		return
	}
	if gradProfile == nil || companyProfile == nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: "Both parties need a profile to message",
			Code:  "NO_PROFILE",
		})
		return
	}

	conversation, err := h.store.GetOrCreateConversation(ctx, gradProfile.ID, companyProfile.ID)
	if err != nil {
		h.internalError(c, "Failed to open conversation", err)
		return
	}

	message, err := h.store.CreateMessage(ctx, conversation.ID, userID, req.Body)
	if err != nil {
		h.internalError(c, "Failed to send message", err)
		return
	}

	h.notifier.MessageReceived(ctx, req.RecipientID, conversation.ID, req.Body)
	c.JSON(http.StatusCreated, message)
}

// ListMessages handles GET /api/v1/conversations/:id/messages
func (h *Handler) ListMessages(c *gin.Context) {
	conversation, ok := h.memberConversationOr404(c)
	if !ok {
		return
	}

	messages, err := h.store.ListMessages(c.Request.Context(), conversation.ID,
		queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		h.internalError(c, "Failed to list messages", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": len(messages)})
}

// MarkConversationRead handles POST /api/v1/conversations/:id/read
func (h *Handler) MarkConversationRead(c *gin.Context) {
	conversation, ok := h.memberConversationOr404(c)
	if !ok {
		return
	}

	userID, _ := GetUserID(c)
	n, err := h.store.MarkConversationRead(c.Request.Context(), conversation.ID, userID)
	if err != nil {
		h.internalError(c, "Failed to mark conversation read", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": n})
}

// memberConversationOr404 loads the conversation in :id and verifies the
// caller participates in it.
func (h *Handler) memberConversationOr404(c *gin.Context) (*models.Conversation, bool) {
	conversationID, ok := parseIDParam(c, "id")
	if !ok {
		return nil, false
	}
	userID, _ := GetUserID(c)
	ctx := c.Request.Context()

	member, err := h.store.UserInConversation(ctx, conversationID, userID)
	if err != nil {
		h.internalError(c, "Failed to check conversation", err)
		return nil, false
	}
	if !member {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: "Conversation not found",
			Code:  "NOT_FOUND",
		})
		return nil, false
	}

	conversation, err := h.store.GetConversation(ctx, conversationID)
	if err != nil || conversation == nil {
		h.internalError(c, "Failed to get conversation", err)
		return nil, false
	}
	return conversation, true
}

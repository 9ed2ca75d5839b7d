package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/ai"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/auth"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/calendly"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/config"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/gemini"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/matcher"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/models"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/notify"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/store"
)

// Handler holds API handler dependencies. Optional integrations
// (aiClient, geminiClient, calendlyProvider) may be nil when not configured;
// the routes that need them are not registered in that case.
type Handler struct {
	config           *config.Config
	store            *store.Store
	jwtManager       *auth.JWTManager
	matchEngine      *matcher.Engine
	aiClient         *ai.Client
	geminiClient     *gemini.Client
	calendlyProvider *calendly.Provider
	notifier         *notify.Notifier
}

// NewHandler creates a new Handler.
func NewHandler(
	cfg *config.Config,
	store *store.Store,
	jwtManager *auth.JWTManager,
	matchEngine *matcher.Engine,
	aiClient *ai.Client,
	geminiClient *gemini.Client,
	calendlyProvider *calendly.Provider,
	notifier *notify.Notifier,
) *Handler {
	return &Handler{
		config:           cfg,
		store:            store,
		jwtManager:       jwtManager,
		matchEngine:      matchEngine,
		aiClient:         aiClient,
		geminiClient:     geminiClient,
		calendlyProvider: calendlyProvider,
		notifier:         notifier,
	}
}

// parseIDParam parses a UUID path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid " + name + " parameter",
			Code:  "INVALID_ID",
		})
		return uuid.Nil, false
	}
	return id, true
}

// ==================== Health Check ====================

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "talent-hub",
		"timestamp": time.Now(),
	})
}

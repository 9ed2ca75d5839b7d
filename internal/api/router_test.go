package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/config"
	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/matcher"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cfg := &config.Config{
		FrontendURL:    "https://app.talenthub.test",
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}
	return NewHandler(cfg, nil, newTestJWTManager(t), matcher.New(matcher.Config{}), nil, nil, nil, nil)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return SetupRouter(ctx, newTestHandler(t))
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), "talent-hub")
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/me",
		"/api/v1/graduate/profile",
		"/api/v1/company/jobs",
		"/api/v1/notifications",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestOptionalRoutesNotRegistered(t *testing.T) {
	// Calendly is not configured on the test handler, so its public
	// endpoints must not exist.
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/integrations/calendly/webhook", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

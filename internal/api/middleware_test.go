package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DLT-Africa-Hub/talent-hub-sub003/internal/auth"
)

func newTestJWTManager(t *testing.T) *auth.JWTManager {
	t.Helper()
	m, err := auth.NewJWTManager("test-secret-at-least-32-characters-long", 15, 30)
	require.NoError(t, err)
	return m
}

func newAuthTestRouter(t *testing.T, m *auth.JWTManager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(m), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "role": GetRole(c)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	m := newTestJWTManager(t)
	r := newAuthTestRouter(t, m)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		userID := uuid.New()
		pair, err := m.GenerateTokenPair(userID, "grad@example.com", "graduate")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "graduate")
	})

	t.Run("bearer keyword is case-insensitive", func(t *testing.T) {
		pair, err := m.GenerateTokenPair(uuid.New(), "grad@example.com", "graduate")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bearer "+pair.AccessToken)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	m := newTestJWTManager(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/company-only", AuthMiddleware(m), RequireRole("company"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/staff", AuthMiddleware(m), RequireRole("company", "admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	request := func(path, role string) *httptest.ResponseRecorder {
		pair, err := m.GenerateTokenPair(uuid.New(), "u@example.com", role)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("matching role passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request("/company-only", "company").Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		w := request("/company-only", "graduate")
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "FORBIDDEN")
	})

	t.Run("any of the allowed roles passes", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request("/staff", "admin").Code)
		assert.Equal(t, http.StatusOK, request("/staff", "company").Code)
		assert.Equal(t, http.StatusForbidden, request("/staff", "graduate").Code)
	})
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware("https://app.talenthub.test"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("sets origin header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "https://app.talenthub.test", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestGenerateState(t *testing.T) {
	s1 := GenerateState()
	s2 := GenerateState()
	assert.NotEmpty(t, s1)
	assert.NotEqual(t, s1, s2)
}

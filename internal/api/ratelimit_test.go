package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rps float64, burst int) *gin.Engine {
		ctx, cancel := context.WithCancel(context.Background())
		t.Cleanup(cancel)
		r := gin.New()
		r.Use(NewRateLimiter(ctx, rps, burst).Middleware())
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("requests within burst pass", func(t *testing.T) {
		r := newRouter(1, 3)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "request %d", i)
		}
	})

	t.Run("requests beyond burst are rejected", func(t *testing.T) {
		r := newRouter(0.001, 1)
		first := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		r.ServeHTTP(first, req)
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		r.ServeHTTP(second, req)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Contains(t, second.Body.String(), "RATE_LIMITED")
	})

	t.Run("clients are limited independently", func(t *testing.T) {
		r := newRouter(0.001, 1)

		reqA := httptest.NewRequest(http.MethodGet, "/", nil)
		reqA.RemoteAddr = "10.0.0.3:1234"
		wA := httptest.NewRecorder()
		r.ServeHTTP(wA, reqA)
		assert.Equal(t, http.StatusOK, wA.Code)

		reqB := httptest.NewRequest(http.MethodGet, "/", nil)
		reqB.RemoteAddr = "10.0.0.4:1234"
		wB := httptest.NewRecorder()
		r.ServeHTTP(wB, reqB)
		assert.Equal(t, http.StatusOK, wB.Code)
	})
}

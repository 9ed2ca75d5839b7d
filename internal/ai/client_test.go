package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed(t *testing.T) {
	t.Run("returns embedding", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/embed", r.URL.Path)
			var req embedRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "hello world", req.Text)
			json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{0.1, 0.2}})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		got, err := c.Embed(context.Background(), "  hello \n world  ")
		require.NoError(t, err)
		assert.Equal(t, []float64{0.1, 0.2}, got)
	})

	t.Run("empty text", func(t *testing.T) {
		c := NewClient("http://unused", time.Second)
		_, err := c.Embed(context.Background(), "   ")
		assert.Error(t, err)
	})

	t.Run("empty embedding from service", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(embedResponse{})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		_, err := c.Embed(context.Background(), "text")
		assert.Error(t, err)
	})

	t.Run("retries on server error", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(embedResponse{Embedding: []float64{1}})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		got, err := c.Embed(context.Background(), "text")
		require.NoError(t, err)
		assert.Equal(t, []float64{1}, got)
		assert.Equal(t, 2, calls)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad input"}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		_, err := c.Embed(context.Background(), "text")
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestEmbedBatch(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/embed/batch", r.URL.Path)
			json.NewEncoder(w).Encode(embedBatchResponse{Embeddings: [][]float64{{1}, {2}}})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		got, err := c.EmbedBatch(context.Background(), []string{"a", "b"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, []float64{1}, got[0])
		assert.Equal(t, []float64{2}, got[1])
	})

	t.Run("count mismatch errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(embedBatchResponse{Embeddings: [][]float64{{1}}})
		}))
		defer srv.Close()

		c := NewClient(srv.URL, time.Second)
		_, err := c.EmbedBatch(context.Background(), []string{"a", "b"})
		assert.Error(t, err)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		c := NewClient("http://unused", time.Second)
		_, err := c.EmbedBatch(context.Background(), nil)
		assert.Error(t, err)
		_, err = c.EmbedBatch(context.Background(), []string{"ok", "  "})
		assert.Error(t, err)
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		assert.NoError(t, NewClient(srv.URL, time.Second).HealthCheck(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		assert.Error(t, NewClient(srv.URL, time.Second).HealthCheck(context.Background()))
	})
}

func TestNormaliseText(t *testing.T) {
	assert.Equal(t, "a b c", normaliseText("  a \n b\t\tc "))
	long := normaliseText(strings.Repeat("x", maxInputChars+100))
	assert.Len(t, long, maxInputChars)

	// Truncation must not split a multibyte rune.
	multibyte := normaliseText(strings.Repeat("é", maxInputChars))
	assert.True(t, utf8.ValidString(multibyte))
	assert.LessOrEqual(t, len(multibyte), maxInputChars)
}

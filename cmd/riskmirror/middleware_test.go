package main

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		apiKey string
		path   string
		header string
		want   int
	}{
		{"disabled", "", "/analyses", "", http.StatusOK},
		{"missing", "k3y", "/analyses", "", http.StatusUnauthorized},
		{"wrong", "k3y", "/analyses", "Bearer nope", http.StatusUnauthorized},
		{"not bearer", "k3y", "/analyses", "k3y", http.StatusUnauthorized},
		{"valid", "k3y", "/analyses", "Bearer k3y", http.StatusOK},
		{"health is open", "k3y", "/health", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			authMiddleware(tt.apiKey, ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
		req.Header.Set("Origin", "https://app.example")
		rec := httptest.NewRecorder()
		corsMiddleware("https://app.example, https://other.example", next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
	})

	t.Run("unlisted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyses", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		corsMiddleware("https://app.example", next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyses", nil)
		rec := httptest.NewRecorder()
		corsMiddleware("*", next).ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	recoveryMiddleware(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestGzipMiddleware(t *testing.T) {
	big := strings.Repeat(`{"narrative":"Risk Score 6.5/10"}`, 200)
	h := gzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pdf" {
			w.Header().Set("Content-Type", "application/pdf")
		} else {
			w.Header().Set("Content-Type", "application/json")
		}
		io.WriteString(w, big)
	}))

	t.Run("json is compressed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyses", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
		zr, err := gzip.NewReader(rec.Body)
		require.NoError(t, err)
		plain, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, big, string(plain))
	})

	t.Run("pdf passes through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/pdf", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, big, rec.Body.String())
	})

	t.Run("client without gzip", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyses", nil))

		assert.Empty(t, rec.Header().Get("Content-Encoding"))
		assert.Equal(t, big, rec.Body.String())
	})
}

func TestChainAuthBeforeHandler(t *testing.T) {
	eng := newFakeEngine()
	h := chain(newTestHandler(t, eng), serverConfig{APIKey: "secret"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyses", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/analyses", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestPwaOrigin(t *testing.T) {
	t.Parallel()
	tests := []struct {
		pairingBaseURL string
		want           string
	}{
		{"https://amrkhaled122.github.io/OmniCall/", "https://amrkhaled122.github.io"},
		{"http://localhost:3000/", "http://localhost:3000"},
		{"not a url", ""},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, pwaOrigin(tt.pairingBaseURL))
	}
}

func newCORSRouter(allowedOrigin string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(corsMiddleware(allowedOrigin))
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	t.Parallel()
	r := newCORSRouter("https://pwa.example.test")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://pwa.example.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "https://pwa.example.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	t.Parallel()
	r := newCORSRouter("https://pwa.example.test")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "https://evil.example.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	t.Parallel()
	r := newCORSRouter("https://pwa.example.test")

	req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
	req.Header.Set("Origin", "https://pwa.example.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "https://pwa.example.test", w.Header().Get("Access-Control-Allow-Origin"))
}

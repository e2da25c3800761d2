package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestSecurityHeaders(t *testing.T) {
	r := newTestRouter(SecurityHeaders())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestCorrelationID(t *testing.T) {
	r := newTestRouter(CorrelationID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Correlation-ID", "fixed-id")
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get("X-Correlation-ID"))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	r := newTestRouter(rl.Middleware())

	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	require.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
	assert.Equal(t, http.StatusTooManyRequests, statuses[3])
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	r := newTestRouter(rl.Middleware())

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(first, req)
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(second, req)
	assert.Equal(t, http.StatusOK, second.Code, "a fresh client has its own bucket")
}

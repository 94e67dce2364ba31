package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Allow(t *testing.T) {
	limiter := NewRateLimiter(1, 2, zap.NewNop())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"), "burst exhausted")
	assert.True(t, limiter.Allow("b"), "limits are per key")

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("a"), "token refilled")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(1, 1, zap.NewNop())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("stale")
	now = now.Add(time.Hour)
	limiter.Allow("fresh")
	limiter.Cleanup()

	assert.NotContains(t, limiter.limiters, "stale")
	assert.Contains(t, limiter.limiters, "fresh")
}

func TestRateLimit_Middleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(0.001, 1, zap.NewNop()), zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodGet, "/ping").Code)

	w := perform(r, http.MethodGet, "/ping")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"rate-limited"}`, w.Body.String())
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(time.Second, zap.NewNop())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	assert.True(t, d.CanProcessRequest("s:/api/play-snippet"))
	assert.False(t, d.CanProcessRequest("s:/api/play-snippet"))
	assert.True(t, d.CanProcessRequest("other:/api/play-snippet"))

	now = now.Add(2 * time.Second)
	assert.True(t, d.CanProcessRequest("s:/api/play-snippet"))

	now = now.Add(2 * time.Second)
	d.Cleanup()
	assert.Empty(t, d.requests)
}

func TestDebounceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.Query("session"); id != "" {
			c.Set(SessionIDKey, id)
		}
		c.Next()
	})
	r.POST("/play", DebounceMiddleware(NewDebouncer(time.Hour, zap.NewNop()), zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodPost, "/play?session=s1").Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodPost, "/play?session=s1").Code)
	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodPost, "/play?session=s2").Code)
	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodPost, "/play").Code)
	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodPost, "/play").Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := perform(r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/ok")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "given")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given", w.Header().Get(RequestIDHeader))
}

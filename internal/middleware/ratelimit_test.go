package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitedEngine(config RateLimiterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(NewRateLimiter(config).RateLimit())
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func pingFrom(engine *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":51000"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitRejectsBeyondBurst(t *testing.T) {
	engine := rateLimitedEngine(RateLimiterConfig{RPS: 0.01, Burst: 2})

	assert.Equal(t, http.StatusOK, pingFrom(engine, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, pingFrom(engine, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(engine, "10.0.0.1"))

	// Another client has its own bucket.
	assert.Equal(t, http.StatusOK, pingFrom(engine, "10.0.0.2"))
}

func TestRateLimitEvictsIdleClients(t *testing.T) {
	engine := rateLimitedEngine(RateLimiterConfig{RPS: 0.01, Burst: 1, TTL: 20 * time.Millisecond})

	assert.Equal(t, http.StatusOK, pingFrom(engine, "10.0.0.3"))
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(engine, "10.0.0.3"))

	// After the TTL the exhausted bucket is gone and the client starts
	// fresh, which also means the map cannot grow without bound.
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, http.StatusOK, pingFrom(engine, "10.0.0.3"))
}

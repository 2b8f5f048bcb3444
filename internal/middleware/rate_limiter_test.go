package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// setupTestRateLimiter creates a rate limiter backed by miniredis
func setupTestRateLimiter(t *testing.T, maxRequests int, window time.Duration) (*RateLimiter, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	rl := NewRateLimiter(client, RateLimiterConfig{
		MaxRequests: maxRequests,
		Window:      window,
	})

	return rl, mr
}

func setupLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.Middleware())
	router.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	router.POST("/register", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return router
}

func limitedRequest(router *gin.Engine, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsRequestsUnderLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 5, 1*time.Minute)
	router := setupLimitedRouter(rl)

	for i := 0; i < 5; i++ {
		w := limitedRequest(router, "/login", "192.168.1.1")
		assert.Equal(t, http.StatusOK, w.Code, "Request %d should succeed", i+1)
	}
}

func TestRateLimiter_BlocksRequestsOverLimit(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 3, 1*time.Minute)
	router := setupLimitedRouter(rl)

	for i := 0; i < 3; i++ {
		w := limitedRequest(router, "/login", "192.168.1.2")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := limitedRequest(router, "/login", "192.168.1.2")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many requests")
}

func TestRateLimiter_SeparateIPs(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 2, 1*time.Minute)
	router := setupLimitedRouter(rl)

	// Exhaust the first IP
	for i := 0; i < 2; i++ {
		limitedRequest(router, "/login", "10.0.0.1")
	}
	w := limitedRequest(router, "/login", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different IP still gets through
	w = limitedRequest(router, "/login", "10.0.0.2")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_SeparateRoutes(t *testing.T) {
	rl, _ := setupTestRateLimiter(t, 2, 1*time.Minute)
	router := setupLimitedRouter(rl)

	// The counter is scoped per route, not global per IP
	for i := 0; i < 2; i++ {
		limitedRequest(router, "/login", "10.0.0.3")
	}
	w := limitedRequest(router, "/login", "10.0.0.3")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = limitedRequest(router, "/register", "10.0.0.3")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 1, 1*time.Minute)
	router := setupLimitedRouter(rl)

	limitedRequest(router, "/login", "10.0.0.4")
	w := limitedRequest(router, "/login", "10.0.0.4")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// Advance past the window; miniredis expires the counter
	mr.FastForward(61 * time.Second)

	w = limitedRequest(router, "/login", "10.0.0.4")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	rl, mr := setupTestRateLimiter(t, 1, 1*time.Minute)
	router := setupLimitedRouter(rl)

	// Kill the backend; requests must still pass
	mr.Close()

	w := limitedRequest(router, "/login", "10.0.0.5")
	assert.Equal(t, http.StatusOK, w.Code)
}

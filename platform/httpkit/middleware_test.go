package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tradecareers_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestIPRateLimiterAllowsWithinBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2, logger.New("test"))

	if !limiter.Allow("10.0.0.1") || !limiter.Allow("10.0.0.1") {
		t.Fatal("requests within burst must be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("request beyond burst must be denied")
	}
	// A different client has its own bucket.
	if !limiter.Allow("10.0.0.2") {
		t.Fatal("separate clients must not share a bucket")
	}
}

func TestIPRateLimiterMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewIPRateLimiter(rate.Limit(1), 1, logger.New("test"))

	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("first request: status = %d", first.Code)
	}

	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("flooding request: status = %d, want 429", second.Code)
	}
}

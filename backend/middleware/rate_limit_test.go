package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func rateLimitedRouter(perMinute, burst int) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(RateLimit(perMinute, burst))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func TestRateLimitMiddleware(t *testing.T) {
	router := rateLimitedRouter(5, 5)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
}

func TestRateLimitDifferentIPs(t *testing.T) {
	router := rateLimitedRouter(2, 2)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Different IP should not be rate limited, got %d", w.Code)
	}
}

func TestNewRateLimiterDefaultsBurst(t *testing.T) {
	limiter := NewRateLimiter(3, 0)
	if limiter.burst != 3 {
		t.Errorf("Expected burst 3, got %d", limiter.burst)
	}
	for i := 0; i < 3; i++ {
		if !limiter.Allow("a") {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("a") {
		t.Error("Expected the bucket to be empty")
	}
	if !limiter.Allow("b") {
		t.Error("Expected a separate bucket per key")
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func requestIDRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	return router
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when missing", "", false},
		{"caller id reused", "existing-request-id-123", true},
		{"oversized id replaced", strings.Repeat("x", 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-ID", tt.incoming)
			}
			w := httptest.NewRecorder()
			requestIDRouter().ServeHTTP(w, req)

			responseID := w.Header().Get("X-Request-ID")
			if responseID == "" {
				t.Fatal("Expected X-Request-ID header to be set")
			}
			if responseID != w.Body.String() {
				t.Errorf("Expected handler to see %q, got %q", responseID, w.Body.String())
			}
			if tt.keep && responseID != tt.incoming {
				t.Errorf("Expected request ID '%s', got '%s'", tt.incoming, responseID)
			}
			if !tt.keep && responseID == tt.incoming {
				t.Errorf("Expected a generated request ID, got '%s'", responseID)
			}
		})
	}
}

func TestGetRequestIDEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if requestID := GetRequestID(c); requestID != "" {
		t.Errorf("Expected empty string, got '%s'", requestID)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testAuth = &config.AuthConfig{
		JWTSecret:        "test-secret-key",
		TokenExpireHours: 24,
	}
	testUser = config.User{
		Username:  "cmendoza",
		IDTecnico: "1",
		Nombre:    "CARLOS MENDOZA QUISPE",
		DNI:       "40123456",
	}
)

func TestGenerateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken(testUser, testAuth)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if token == "" {
		t.Error("Expected non-empty token")
	}

	expectedExpiry := time.Now().Add(24 * time.Hour)
	if expiresAt.Before(expectedExpiry.Add(-time.Minute)) || expiresAt.After(expectedExpiry.Add(time.Minute)) {
		t.Errorf("Expiry time %v is not within expected range of %v", expiresAt, expectedExpiry)
	}

	claims, err := ParseToken(token, testAuth)
	if err != nil {
		t.Fatalf("Failed to parse token: %v", err)
	}
	if claims.IDTecnico != "1" || claims.Nombre != "CARLOS MENDOZA QUISPE" || claims.DNI != "40123456" {
		t.Errorf("Unexpected claims %+v", claims)
	}
}

func TestAuthMiddleware(t *testing.T) {
	token, _, err := GenerateToken(testUser, testAuth)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	tests := []struct {
		name           string
		target         string
		authHeader     string
		upgrade        bool
		expectedStatus int
	}{
		{"valid token", "/test", "Bearer " + token, false, http.StatusOK},
		{"missing header", "/test", "", false, http.StatusUnauthorized},
		{"invalid format", "/test", token, false, http.StatusUnauthorized},
		{"invalid token", "/test", "Bearer invalid.token.here", false, http.StatusUnauthorized},
		{"query token on websocket upgrade", "/test?token=" + token, "", true, http.StatusOK},
		{"query token on plain request", "/test?token=" + token, "", false, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(AuthMiddleware(testAuth))
			router.GET("/test", func(c *gin.Context) {
				claims := GetClaims(c)
				if claims == nil {
					c.Status(http.StatusInternalServerError)
					return
				}
				c.JSON(http.StatusOK, gin.H{"id_tecnico": claims.IDTecnico})
			})

			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	claims := Claims{
		Username:  "cmendoza",
		IDTecnico: "1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	tokenString, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAuth.JWTSecret))

	router := gin.New()
	router.Use(AuthMiddleware(testAuth))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d for expired token, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestParseTokenRejectsOtherSecret(t *testing.T) {
	token, _, err := GenerateToken(testUser, &config.AuthConfig{JWTSecret: "otro", TokenExpireHours: 1})
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if _, err := ParseToken(token, testAuth); err == nil {
		t.Error("Expected token signed with another secret to be rejected")
	}
}

func TestGetUsername(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if GetUsername(c) != "" {
		t.Error("Expected empty string for unset username")
	}
	if GetClaims(c) != nil {
		t.Error("Expected nil claims for an anonymous request")
	}

	c.Set("username", "cmendoza")
	if GetUsername(c) != "cmendoza" {
		t.Errorf("Expected 'cmendoza', got '%s'", GetUsername(c))
	}
}

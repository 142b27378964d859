package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const claimsKey = "claims"

// Claims identify the signed-in técnico
type Claims struct {
	Username  string `json:"username"`
	IDTecnico string `json:"id_tecnico"`
	Nombre    string `json:"nombre"`
	DNI       string `json:"dni"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the configured user
func GenerateToken(user config.User, cfg *config.AuthConfig) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(cfg.TokenExpireHours) * time.Hour)

	claims := Claims{
		Username:  user.Username,
		IDTecnico: user.IDTecnico,
		Nombre:    user.Nombre,
		DNI:       user.DNI,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates a signed token and returns its claims
func ParseToken(tokenString string, cfg *config.AuthConfig) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// bearer reads the token from the Authorization header. Browsers cannot set
// headers on a WebSocket upgrade, so those requests may pass ?token=.
func bearer(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if t := c.Query("token"); t != "" && strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			return t, ""
		}
		return "", "Authorization header required"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "Invalid authorization header format"
	}
	return parts[1], ""
}

// AuthMiddleware validates the JWT and stores the claims on the request
func AuthMiddleware(cfg *config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, problem := bearer(c)
		if problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}

		claims, err := ParseToken(tokenString, cfg)
		if err != nil {
			logger.Debug(c.Request.Context(), "token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Set("username", claims.Username)

		ctx := context.WithValue(c.Request.Context(), logger.UsernameKey, claims.Username)
		ctx = context.WithValue(ctx, logger.TecnicoKey, claims.IDTecnico)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClaims returns the claims of an authenticated request, nil otherwise
func GetClaims(c *gin.Context) *Claims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUsername gets the username from context
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get("username"); exists {
		return username.(string)
	}
	return ""
}

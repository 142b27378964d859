package handler

import (
	"net/http"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/middleware"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Username  string `json:"username"`
	IDTecnico string `json:"id_tecnico"`
	Nombre    string `json:"nombre"`
}

// Login exchanges configured credentials for a token carrying the técnico
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user := h.config.FindUser(req.Username)
	if user == nil || user.Password != req.Password {
		logger.Info(c.Request.Context(), "login rejected", "username", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, expiresAt, err := middleware.GenerateToken(*user, &h.config.Auth)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to sign token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		Username:  user.Username,
		IDTecnico: user.IDTecnico,
		Nombre:    user.Nombre,
	})
}

// Me returns the principal of the token
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, principalOf(claims))
}

package handler

import (
	"net/http"
	"strings"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/middleware"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/workflow"
	"github.com/gin-gonic/gin"
)

// SessionHandler serves the session and workflow endpoints
type SessionHandler struct {
	registry *Registry
	backend  *service.Backend
}

func NewSessionHandler(registry *Registry, backend *service.Backend) *SessionHandler {
	return &SessionHandler{registry: registry, backend: backend}
}

func principalOf(claims *middleware.Claims) workflow.Principal {
	return workflow.Principal{
		IDTecnico: model.FlexID(claims.IDTecnico),
		Nombre:    claims.Nombre,
		DNI:       claims.DNI,
		Username:  claims.Username,
	}
}

// session loads the :sid session of the caller, aborting when it is missing
func (h *SessionHandler) session(c *gin.Context) (*workflow.Session, bool) {
	s, err := h.registry.Get(c.Param("sid"), middleware.GetUsername(c))
	if err != nil {
		abortWithError(c, err)
		return nil, false
	}
	return s, true
}

// Create opens a session for the signed-in técnico
func (h *SessionHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	s, err := h.registry.Create(principalOf(claims))
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Info(c.Request.Context(), "session opened", "session_id", s.ID)
	c.JSON(http.StatusCreated, s.Info())
}

func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Info())
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.registry.Delete(c.Param("sid"), middleware.GetUsername(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExpedienteRequest hands a case file to the session, either as the row
// picked from a search or by its case number
type ExpedienteRequest struct {
	Expediente *model.Expediente `json:"expediente"`
	Numero     string            `json:"numero"`
}

// SetExpediente makes a case file current for every scoped workflow
func (h *SessionHandler) SetExpediente(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req ExpedienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	exp := req.Expediente
	if exp == nil {
		numero := strings.TrimSpace(req.Numero)
		if numero == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expediente or numero is required"})
			return
		}
		found, err := h.backend.Expedientes.PorNumero(c.Request.Context(), numero)
		if err != nil {
			abortWithError(c, err)
			return
		}
		if found == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Expediente no encontrado"})
			return
		}
		exp = found
	}

	if err := s.SetExpediente(c.Request.Context(), *exp); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Info())
}

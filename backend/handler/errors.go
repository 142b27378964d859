package handler

import (
	"errors"
	"net/http"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/workflow"
	"github.com/gin-gonic/gin"
)

var (
	errWorkflowNotMounted = errors.New("workflow not mounted")
	errStaging            = errors.New("staging failed")
	errStagingDisabled    = errors.New("el almacenamiento temporal de documentos no está habilitado")
	errNothingStaged      = errors.New("no hay documentos pendientes de envío")
)

// statusOf maps a domain error to its HTTP status
func statusOf(err error) int {
	var apiErr *service.APIError
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, workflow.ErrUnknownEntity),
		errors.Is(err, errWorkflowNotMounted),
		errors.Is(err, errNothingStaged),
		errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidTransition), errors.Is(err, workflow.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrClosed):
		return http.StatusGone
	case errors.Is(err, ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, model.ErrMissingExpedienteID):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	case errors.Is(err, errStaging):
		return http.StatusInternalServerError
	case errors.Is(err, errStagingDisabled):
		return http.StatusNotImplemented
	}
	return http.StatusBadRequest
}

// abortWithError writes {"error": ...}; backend failures keep their message
func abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	msg := err.Error()
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

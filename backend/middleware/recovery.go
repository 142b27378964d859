package middleware

import (
	"io"
	"net/http"
	"runtime/debug"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 carrying the request id. The panic and
// its stack go to the structured log instead of gin's default writer.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		requestID := GetRequestID(c)
		logger.Error(c.Request.Context(), "panic recovered",
			"error", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": requestID,
		})
	})
}

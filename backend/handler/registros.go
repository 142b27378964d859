package handler

import (
	"net/http"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/gin-gonic/gin"
)

// RegistroHandler serves the single-record operations that sit outside a
// workflow: list-page deletions and observación follow-up
type RegistroHandler struct {
	backend *service.Backend
}

func NewRegistroHandler(backend *service.Backend) *RegistroHandler {
	return &RegistroHandler{backend: backend}
}

// ObservacionCambios is a partial update of one observación
type ObservacionCambios struct {
	Descripcion     string `json:"c_descripcion_observacion" binding:"omitempty,max=1000"`
	Estado          string `json:"c_estado_observacion" binding:"omitempty,max=30"`
	FechaResolucion string `json:"d_fecha_resolucion" binding:"omitempty,datetime=2006-01-02"`
}

func (o ObservacionCambios) record() map[string]any {
	out := map[string]any{}
	if o.Descripcion != "" {
		out["c_descripcion_observacion"] = o.Descripcion
	}
	if o.Estado != "" {
		out["c_estado_observacion"] = o.Estado
	}
	if o.FechaResolucion != "" {
		out["d_fecha_resolucion"] = o.FechaResolucion
	}
	return out
}

func (h *RegistroHandler) UpdateObservacion(c *gin.Context) {
	var req ObservacionCambios
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos", "detail": err.Error()})
		return
	}
	cambios := req.record()
	if len(cambios) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No hay cambios que guardar"})
		return
	}

	res, err := h.backend.Observaciones.Actualizar(c.Request.Context(), c.Param("idObs"), cambios)
	if err != nil {
		abortWithError(c, err)
		return
	}
	msg := res.Message
	if msg == "" {
		msg = "Observación actualizada"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "data": res.Data})
}

func (h *RegistroHandler) DeleteContribuyente(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.backend.Contribuyentes.Eliminar(ctx, c.Param("doc")); err != nil {
		abortWithError(c, err)
		return
	}
	logger.Info(ctx, "contribuyente deleted", "documento", c.Param("doc"))
	c.JSON(http.StatusOK, gin.H{"message": "Contribuyente eliminado correctamente"})
}

func (h *RegistroHandler) DeleteProgramacion(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.backend.Programacion.Eliminar(ctx, c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	logger.Info(ctx, "programación deleted", "id_programacion", c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"message": "Programación eliminada"})
}

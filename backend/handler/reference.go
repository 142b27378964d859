package handler

import (
	"net/http"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the lookup lists forms are filled from
type ReferenceHandler struct {
	backend *service.Backend
}

func NewReferenceHandler(backend *service.Backend) *ReferenceHandler {
	return &ReferenceHandler{backend: backend}
}

func (h *ReferenceHandler) Tecnicos(c *gin.Context) {
	tecnicos, err := h.backend.Tecnicos.Listar(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tecnicos": tecnicos})
}

func (h *ReferenceHandler) Periodos(c *gin.Context) {
	periodos, err := h.backend.Predios.Periodos(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"periodos": periodos})
}

// ProgramacionTecnico lists the inspection schedule of one técnico
func (h *ReferenceHandler) ProgramacionTecnico(c *gin.Context) {
	rows, err := h.backend.Programacion.PorTecnico(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]model.Programacion, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToView())
	}
	c.JSON(http.StatusOK, gin.H{"programaciones": out})
}

package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/middleware"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/pkg/logger"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/validation"
	"github.com/gin-gonic/gin"
)

// Stager keeps a copy of every upload until the backend has accepted it.
// Forwards read the staged copies back, so a failed forward can be retried.
type Stager interface {
	StageDocumento(ctx context.Context, idExpediente, filename string, reader io.Reader, size int64, contentType string) (string, error)
	ListStaged(ctx context.Context, idExpediente string) ([]service.StagedDocumento, error)
	OpenStaged(ctx context.Context, objectName string) (io.ReadCloser, service.StagedDocumento, error)
	DiscardStaged(ctx context.Context, objectNames ...string) error
}

type DocumentoHandler struct {
	backend *service.Backend
	stager  Stager
}

// NewDocumentoHandler proxies attachments to the backend. stager may be nil.
func NewDocumentoHandler(backend *service.Backend, stager Stager) *DocumentoHandler {
	return &DocumentoHandler{backend: backend, stager: stager}
}

func (h *DocumentoHandler) List(c *gin.Context) {
	docs, err := h.backend.Documentos.Listar(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documentos": docs})
}

// Upload validates every file of the "documentos" field, stages it and
// forwards the batch stamped with the caller's técnico id
func (h *DocumentoHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()
	idExpediente := c.Param("id")
	if !model.FlexID(idExpediente).Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": model.ErrMissingExpedienteID.Error()})
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	headers := form.File["documentos"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No se seleccionaron archivos"})
		return
	}

	var errs []string
	for _, fh := range headers {
		mime := contentType(fh.Header.Get("Content-Type"))
		if res := validation.Documento(fh.Filename, mime, fh.Size); !res.Valid {
			errs = append(errs, res.Errors...)
		}
	}
	if len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Archivos inválidos", "errors": errs})
		return
	}

	idTecnico := model.FlexID(claims.IDTecnico)
	var (
		res   *service.SaveResult
		count int
	)
	if h.stager == nil {
		res, count, err = h.forwardDirect(ctx, idExpediente, idTecnico, headers)
	} else {
		var names []string
		names, err = h.stage(ctx, idExpediente, headers)
		if err == nil {
			res, count, err = h.forwardStaged(ctx, idExpediente, idTecnico, names)
		}
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	uploaded(c, res, count)
}

// Retry forwards the documentos of an expediente left staged by a failed
// upload, stamped with the caller's técnico id
func (h *DocumentoHandler) Retry(c *gin.Context) {
	ctx := c.Request.Context()
	idExpediente := c.Param("id")
	if !model.FlexID(idExpediente).Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": model.ErrMissingExpedienteID.Error()})
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	if h.stager == nil {
		abortWithError(c, errStagingDisabled)
		return
	}

	pending, err := h.stager.ListStaged(ctx, idExpediente)
	if err != nil {
		abortWithError(c, fmt.Errorf("%w: %w", errStaging, err))
		return
	}
	if len(pending) == 0 {
		abortWithError(c, errNothingStaged)
		return
	}
	names := make([]string, 0, len(pending))
	for _, p := range pending {
		names = append(names, p.ObjectName)
	}

	res, count, err := h.forwardStaged(ctx, idExpediente, model.FlexID(claims.IDTecnico), names)
	if err != nil {
		abortWithError(c, err)
		return
	}
	uploaded(c, res, count)
}

// stage stores every file and returns the object names in form order
func (h *DocumentoHandler) stage(ctx context.Context, idExpediente string, headers []*multipart.FileHeader) ([]string, error) {
	names := make([]string, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		name, err := h.stager.StageDocumento(ctx, idExpediente, fh.Filename, f, fh.Size, contentType(fh.Header.Get("Content-Type")))
		f.Close()
		if err != nil {
			logger.Error(ctx, "failed to stage documento", "filename", fh.Filename, "error", err)
			return nil, fmt.Errorf("%w: %s", errStaging, fh.Filename)
		}
		names = append(names, name)
	}
	return names, nil
}

// forwardStaged sends the staged copies to the backend and discards them
// once it has accepted the batch
func (h *DocumentoHandler) forwardStaged(ctx context.Context, idExpediente string, idTecnico model.FlexID, names []string) (*service.SaveResult, int, error) {
	uploads := make([]service.Upload, 0, len(names))
	for _, name := range names {
		rc, info, err := h.stager.OpenStaged(ctx, name)
		if err != nil {
			logger.Error(ctx, "failed to read staged documento", "object", name, "error", err)
			return nil, 0, fmt.Errorf("%w: %s", errStaging, name)
		}
		defer rc.Close()
		uploads = append(uploads, service.Upload{
			Filename:    info.Filename,
			ContentType: info.ContentType,
			Content:     rc,
		})
	}

	res, err := h.backend.Documentos.Subir(ctx, idExpediente, idTecnico, uploads)
	if err != nil {
		logger.Warn(ctx, "documento upload rejected, staged copies kept", "id_expediente", idExpediente, "staged", names, "error", err)
		return nil, 0, err
	}
	logger.Info(ctx, "documentos uploaded", "id_expediente", idExpediente, "count", len(uploads))
	if err := h.stager.DiscardStaged(ctx, names...); err != nil {
		logger.Warn(ctx, "staged copies left behind", "objects", names, "error", err)
	}
	return res, len(uploads), nil
}

// forwardDirect streams the form files straight to the backend
func (h *DocumentoHandler) forwardDirect(ctx context.Context, idExpediente string, idTecnico model.FlexID, headers []*multipart.FileHeader) (*service.SaveResult, int, error) {
	uploads := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		defer f.Close()
		uploads = append(uploads, service.Upload{
			Filename:    fh.Filename,
			ContentType: contentType(fh.Header.Get("Content-Type")),
			Content:     f,
		})
	}
	res, err := h.backend.Documentos.Subir(ctx, idExpediente, idTecnico, uploads)
	if err != nil {
		return nil, 0, err
	}
	logger.Info(ctx, "documentos uploaded", "id_expediente", idExpediente, "count", len(uploads))
	return res, len(uploads), nil
}

func uploaded(c *gin.Context, res *service.SaveResult, count int) {
	msg := res.Message
	if msg == "" {
		msg = "Documentos subidos correctamente"
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg, "data": res.Data, "count": count})
}

// Info returns the metadata of a stored attachment
func (h *DocumentoHandler) Info(c *gin.Context) {
	doc, err := h.backend.Documentos.Info(c.Request.Context(), c.Param("idDoc"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Documento no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documento": doc})
}

// Download streams a stored attachment back to the caller
func (h *DocumentoHandler) Download(c *gin.Context) {
	dl, err := h.backend.Documentos.Descargar(c.Request.Context(), c.Param("idDoc"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	defer dl.Body.Close()

	extra := map[string]string{}
	if dl.Disposition != "" {
		extra["Content-Disposition"] = dl.Disposition
	}
	ct := dl.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, dl.ContentLength, ct, dl.Body, extra)
}

func (h *DocumentoHandler) Delete(c *gin.Context) {
	if err := h.backend.Documentos.Eliminar(c.Request.Context(), c.Param("idDoc")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Documento eliminado"})
}

// contentType drops parameters such as charset
func contentType(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(strings.ToLower(v))
}

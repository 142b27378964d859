package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

const (
	routeDocumentos         = "/urbano/documentos-adjuntos/{id}"
	routeDocumentosSubir    = "/urbano/documentos-adjuntos/{id}/subir"
	routeDocumentoDescargar = "/urbano/documentos-adjuntos/documento/{idDoc}/descargar"
	routeDocumentoInfo      = "/urbano/documentos-adjuntos/documento/{idDoc}/info"
	routeDocumento          = "/urbano/documentos-adjuntos/documento/{idDoc}"
)

// Upload is one file to attach
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Download is an attachment stream. The caller closes Body.
type Download struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	Disposition   string
}

type DocumentoService struct {
	c *Client
}

func (s *DocumentoService) Listar(ctx context.Context, idExpediente string) ([]model.Documento, error) {
	body, err := s.c.get(ctx, routeDocumentos, "/urbano/documentos-adjuntos/"+seg(idExpediente), nil)
	return listOrEmpty[model.Documento](body, err)
}

// Subir sends every file in one multipart request under the repeated
// "documentos" field, stamped with the uploading técnico.
func (s *DocumentoService) Subir(ctx context.Context, idExpediente string, idTecnico model.FlexID, files []Upload) (*SaveResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="documentos"; filename=%q`, f.Filename))
		if f.ContentType != "" {
			h.Set("Content-Type", f.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("failed to create form part: %w", err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, fmt.Errorf("failed to copy %s: %w", f.Filename, err)
		}
	}
	if err := w.WriteField("id_tecnico_subio", idTecnico.String()); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	body, err := s.c.do(ctx, request{
		method:      http.MethodPost,
		route:       routeDocumentosSubir,
		path:        "/urbano/documentos-adjuntos/" + seg(idExpediente) + "/subir",
		rawBody:     &buf,
		contentType: w.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	return decodeSave(body)
}

// Descargar streams the stored file
func (s *DocumentoService) Descargar(ctx context.Context, idDocumento string) (*Download, error) {
	resp, err := s.c.send(ctx, request{
		method: http.MethodGet,
		route:  routeDocumentoDescargar,
		path:   "/urbano/documentos-adjuntos/documento/" + seg(idDocumento) + "/descargar",
	})
	if err != nil {
		return nil, err
	}
	return &Download{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Disposition:   resp.Header.Get("Content-Disposition"),
	}, nil
}

func (s *DocumentoService) Info(ctx context.Context, idDocumento string) (*model.Documento, error) {
	body, err := s.c.get(ctx, routeDocumentoInfo, "/urbano/documentos-adjuntos/documento/"+seg(idDocumento)+"/info", nil)
	return objectOrNil[model.Documento](body, err)
}

func (s *DocumentoService) Eliminar(ctx context.Context, idDocumento string) error {
	_, err := s.c.delete(ctx, routeDocumento, "/urbano/documentos-adjuntos/documento/"+seg(idDocumento))
	return err
}

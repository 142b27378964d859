package model

import (
	"fmt"
	"slices"
)

// MaxDocumentoBytes is the upload size limit per file
const MaxDocumentoBytes = 10 * 1024 * 1024

// MimeTypesPermitidos are the accepted attachment content types
var MimeTypesPermitidos = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"image/jpeg",
	"image/png",
	"image/tiff",
}

// MimePermitido reports whether a content type may be uploaded
func MimePermitido(mime string) bool {
	return slices.Contains(MimeTypesPermitidos, mime)
}

// Documento is an attachment metadata row
type Documento struct {
	IDDocumentoAdjunto FlexID      `json:"id_documento_adjunto"`
	IDExpediente       FlexID      `json:"id_expediente,omitempty"`
	Nombre             string      `json:"c_nombre_documento"`
	Tipo               string      `json:"c_tipo_documento"`
	TamanioBytes       int64       `json:"n_tamanio_bytes"`
	MimeType           string      `json:"c_mime_type"`
	FechaSubida        string      `json:"d_fecha_subida"`
	IDTecnicoSubio     FlexID      `json:"id_tecnico_subio"`
	Activo             bool        `json:"b_activo"`
	TecnicoDocumentos  *TecnicoRef `json:"tecnicoDocumentos,omitempty"`
}

// DocumentoView is the list row shown to the técnico
type DocumentoView struct {
	ID                FlexID      `json:"id"`
	Nombre            string      `json:"nombre"`
	Tipo              string      `json:"tipo"`
	Tamanio           int64       `json:"tamanio"`
	TamanioFormateado string      `json:"tamanioFormateado"`
	MimeType          string      `json:"mimeType"`
	FechaSubida       string      `json:"fechaSubida"`
	IDTecnicoSubio    FlexID      `json:"idTecnicoSubio"`
	Activo            bool        `json:"activo"`
	Tecnico           *TecnicoRef `json:"tecnico,omitempty"`
}

func (d Documento) ToView() DocumentoView {
	return DocumentoView{
		ID:                d.IDDocumentoAdjunto,
		Nombre:            d.Nombre,
		Tipo:              d.Tipo,
		Tamanio:           d.TamanioBytes,
		TamanioFormateado: FormatearTamanio(d.TamanioBytes),
		MimeType:          d.MimeType,
		FechaSubida:       d.FechaSubida,
		IDTecnicoSubio:    d.IDTecnicoSubio,
		Activo:            d.Activo,
		Tecnico:           d.TecnicoDocumentos,
	}
}

// Documentos is the attachment list of an expediente
type Documentos struct {
	Documentos []DocumentoView `json:"documentos"`
}

// FormatearTamanio renders a byte count with two decimals in B, KB, MB or GB
func FormatearTamanio(bytes int64) string {
	unidades := []string{"B", "KB", "MB", "GB"}
	v := float64(bytes)
	i := 0
	for v >= 1024 && i < len(unidades)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, unidades[i])
}

package model

import "strings"

// Observación defaults for rows created from the free-text list
const (
	TipoObservacionGeneral  = "GENERAL"
	SeccionAplicableGeneral = "General"
)

// TecnicoRef is the nested author reference on sub-record rows
type TecnicoRef struct {
	IDTecnico FlexID `json:"id_tecnico"`
	Nombre    string `json:"c_nombre_tecnico"`
}

// Observacion is a server-side observación row
type Observacion struct {
	IDObservacion      FlexID      `json:"id_observacion"`
	IDExpediente       FlexID      `json:"id_expediente,omitempty"`
	Descripcion        string      `json:"c_descripcion_observacion"`
	Tipo               string      `json:"c_tipo_observacion"`
	SeccionAplicable   string      `json:"c_seccion_aplicable"`
	Estado             string      `json:"c_estado_observacion,omitempty"`
	FechaCreacion      string      `json:"d_fecha_creacion,omitempty"`
	FechaResolucion    string      `json:"d_fecha_resolucion,omitempty"`
	TecnicoObservacion *TecnicoRef `json:"tecnicoObservacion,omitempty"`
}

// NuevaObservacion is the create payload
type NuevaObservacion struct {
	IDExpediente     FlexID `json:"id_expediente"`
	IDTecnico        FlexID `json:"id_tecnico"`
	Tipo             string `json:"c_tipo_observacion"`
	Descripcion      string `json:"c_descripcion_observacion"`
	SeccionAplicable string `json:"c_seccion_aplicable"`
}

// Observaciones is the editable free-text list of an expediente
type Observaciones struct {
	Textos []string `json:"textos"`
}

// ObservacionesFromRows extracts the description texts
func ObservacionesFromRows(rows []Observacion) Observaciones {
	textos := make([]string, 0, len(rows))
	for _, r := range rows {
		textos = append(textos, r.Descripcion)
	}
	if len(textos) == 0 {
		textos = []string{""}
	}
	return Observaciones{Textos: textos}
}

// NoVacias returns the trimmed non-blank texts
func (o Observaciones) NoVacias() []string {
	out := make([]string, 0, len(o.Textos))
	for _, t := range o.Textos {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ReconcilePlan is the set of calls that brings the server rows in line with
// the edited list
type ReconcilePlan struct {
	Delete []FlexID
	Create []string
}

// PlanReconcile keeps rows whose text is still present, deletes the rest and
// creates the remaining texts. Each text matches at most one existing row.
func PlanReconcile(existing []Observacion, textos []string) ReconcilePlan {
	pending := make([]string, 0, len(textos))
	for _, t := range textos {
		if t = strings.TrimSpace(t); t != "" {
			pending = append(pending, t)
		}
	}
	var plan ReconcilePlan
	for _, row := range existing {
		idx := -1
		for i, t := range pending {
			if t == strings.TrimSpace(row.Descripcion) {
				idx = i
				break
			}
		}
		if idx >= 0 {
			pending = append(pending[:idx], pending[idx+1:]...)
			continue
		}
		plan.Delete = append(plan.Delete, row.IDObservacion)
	}
	plan.Create = pending
	return plan
}

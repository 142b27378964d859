package model

import (
	"math"
	"time"
)

// Checklist estados
const (
	EstadoCumple    = "Si cumple"
	EstadoNoCumple  = "No cumple"
	EstadoPendiente = "-"
)

// Form types for requisito 1
const (
	FormularioFUE  = "FUE"
	FormularioFUHU = "FUHU"
)

// DateLayout is the backend date format
const DateLayout = "2006-01-02"

// RequisitosWire is the persisted technical requirements record
type RequisitosWire struct {
	IDRequisito                      FlexID `json:"id_requisito,omitempty"`
	IDExpediente                     FlexID `json:"id_expediente,omitempty"`
	TipoFormulario                   string `json:"c_tipo_formulario"`
	CopiaLiteralDominio              bool   `json:"b_copia_literal_dominio"`
	ObservacionesCopiaLiteral        string `json:"c_observaciones_copia_literal"`
	Propietario                      bool   `json:"b_propietario"`
	ObservacionesPropietario         string `json:"c_observaciones_propietario"`
	DocumentoDerechoEdificar         bool   `json:"b_documento_derecho_edificar"`
	ObservacionesDocumentoDerecho    string `json:"c_observaciones_documento_derecho"`
	PoderRepresentacion              bool   `json:"b_poder_representacion"`
	ObservacionesPoderRepresentacion string `json:"c_observaciones_poder_representacion"`
	BoletaHabilidadProfesional       bool   `json:"b_boleta_habilidad_profesional"`
	ObservacionesBoletaHabilidad     string `json:"c_observaciones_boleta_habilidad"`
	FechaVerificacion                string `json:"d_fecha_verificacion"`
	IDTecnicoVerificador             FlexID `json:"id_tecnico_verificador"`
}

// Requisito is one checklist row
type Requisito struct {
	ID          int    `json:"id"`
	Nombre      string `json:"nombre"`
	Estado      string `json:"estado"`
	Observacion string `json:"observacion"`
}

// Requisitos is the editable checklist view
type Requisitos struct {
	TipoFormulario string      `json:"tipoFormulario"`
	Requisitos     []Requisito `json:"requisitos"`
}

// ResumenRequisitos summarizes checklist progress
type ResumenRequisitos struct {
	Total                  int `json:"total"`
	Cumplidos              int `json:"cumplidos"`
	NoCumplidos            int `json:"noCumplidos"`
	Pendientes             int `json:"pendientes"`
	PorcentajeCumplimiento int `json:"porcentajeCumplimiento"`
}

var requisitoNombres = []string{
	"Fue",
	"Copia literal de dominio expedida por la SUNARP",
	"Propietario",
	"Documento que acredite el derecho para edificar",
	"Poder de representación en caso de Personas Jurídicas",
	"Boleta de habilidad profesional (declaraciones juradas)",
}

// NuevosRequisitos returns the six checklist items, all pending
func NuevosRequisitos() Requisitos {
	items := make([]Requisito, len(requisitoNombres))
	for i, nombre := range requisitoNombres {
		items[i] = Requisito{ID: i + 1, Nombre: nombre, Estado: EstadoPendiente}
	}
	return Requisitos{TipoFormulario: FormularioFUE, Requisitos: items}
}

func estadoDe(ok bool) string {
	if ok {
		return EstadoCumple
	}
	return EstadoNoCumple
}

// ToView maps the stored record onto the six checklist rows
func (w RequisitosWire) ToView() Requisitos {
	tipo := w.TipoFormulario
	if tipo == "" {
		tipo = FormularioFUE
	}
	r := NuevosRequisitos()
	r.TipoFormulario = tipo
	r.Requisitos[0].Estado = estadoDe(w.TipoFormulario == FormularioFUE)
	r.Requisitos[1].Estado, r.Requisitos[1].Observacion = estadoDe(w.CopiaLiteralDominio), w.ObservacionesCopiaLiteral
	r.Requisitos[2].Estado, r.Requisitos[2].Observacion = estadoDe(w.Propietario), w.ObservacionesPropietario
	r.Requisitos[3].Estado, r.Requisitos[3].Observacion = estadoDe(w.DocumentoDerechoEdificar), w.ObservacionesDocumentoDerecho
	r.Requisitos[4].Estado, r.Requisitos[4].Observacion = estadoDe(w.PoderRepresentacion), w.ObservacionesPoderRepresentacion
	r.Requisitos[5].Estado, r.Requisitos[5].Observacion = estadoDe(w.BoletaHabilidadProfesional), w.ObservacionesBoletaHabilidad
	return r
}

func (r Requisitos) find(id int) (Requisito, bool) {
	for _, req := range r.Requisitos {
		if req.ID == id {
			return req, true
		}
	}
	return Requisito{}, false
}

func (r Requisitos) cumple(id int) bool {
	req, ok := r.find(id)
	return ok && req.Estado == EstadoCumple
}

func (r Requisitos) observacion(id int) string {
	req, _ := r.find(id)
	return req.Observacion
}

// ToWire builds the save payload stamped with the verifying técnico and date
func (r Requisitos) ToWire(idTecnico FlexID, fecha time.Time) RequisitosWire {
	tipo := r.TipoFormulario
	if tipo == "" {
		tipo = FormularioFUE
	}
	return RequisitosWire{
		TipoFormulario:                   tipo,
		CopiaLiteralDominio:              r.cumple(2),
		ObservacionesCopiaLiteral:        r.observacion(2),
		Propietario:                      r.cumple(3),
		ObservacionesPropietario:         r.observacion(3),
		DocumentoDerechoEdificar:         r.cumple(4),
		ObservacionesDocumentoDerecho:    r.observacion(4),
		PoderRepresentacion:              r.cumple(5),
		ObservacionesPoderRepresentacion: r.observacion(5),
		BoletaHabilidadProfesional:       r.cumple(6),
		ObservacionesBoletaHabilidad:     r.observacion(6),
		FechaVerificacion:                fecha.Format(DateLayout),
		IDTecnicoVerificador:             idTecnico,
	}
}

// Resumen counts checklist states
func (r Requisitos) Resumen() ResumenRequisitos {
	res := ResumenRequisitos{Total: len(r.Requisitos)}
	for _, req := range r.Requisitos {
		switch req.Estado {
		case EstadoCumple:
			res.Cumplidos++
		case EstadoNoCumple:
			res.NoCumplidos++
		case "", EstadoPendiente:
			res.Pendientes++
		}
	}
	if res.Total > 0 {
		res.PorcentajeCumplimiento = int(math.Round(float64(res.Cumplidos) / float64(res.Total) * 100))
	}
	return res
}

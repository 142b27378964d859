package model

import (
	"strings"
	"time"
)

// Criterio is one administrative verification criterion
type Criterio struct {
	ID          int    `json:"id"`
	Criterio    string `json:"criterio"`
	Cumple      bool   `json:"cumple"`
	Observacion string `json:"observacion"`
}

// VerificacionAdministrativa is the editable four-criteria sheet
type VerificacionAdministrativa struct {
	Criterios []Criterio `json:"criterios"`
}

// VerificacionAdminWire is the persisted administrative verification
type VerificacionAdminWire struct {
	CumpleAreaLinderos              bool   `json:"b_cumple_area_linderos"`
	ObservacionesAreaLinderos       string `json:"c_observaciones_area_linderos"`
	CumpleNormasRNE                 bool   `json:"b_cumple_normas_rne"`
	ObservacionesNormasRNE          string `json:"c_observaciones_normas_rne"`
	CumpleNormasUrbanisticas        bool   `json:"b_cumple_normas_urbanisticas"`
	ObservacionesNormasUrbanisticas string `json:"c_observaciones_normas_urbanisticas"`
	CumpleOtrosRequisitos           bool   `json:"b_cumple_otros_requisitos"`
	ObservacionesOtrosRequisitos    string `json:"c_observaciones_otros_requisitos"`
	FechaVerificacion               string `json:"d_fecha_verificacion"`
	IDTecnicoVerificador            FlexID `json:"id_tecnico_verificador"`
	Completo                        bool   `json:"b_completo"`
}

// CriteriosAdministrativos are the fixed criteria, in order
var CriteriosAdministrativos = []string{
	"Área, linderos y medidas perimétricas según documentos de propiedad",
	"Normas de Diseño del R.N.E.",
	"Normas Urbanísticas y/o Edificatorias vigentes",
	"Otros requisitos administrativos establecidos",
}

// NuevaVerificacionAdmin returns the four criteria unchecked
func NuevaVerificacionAdmin() VerificacionAdministrativa {
	cs := make([]Criterio, len(CriteriosAdministrativos))
	for i, nombre := range CriteriosAdministrativos {
		cs[i] = Criterio{ID: i + 1, Criterio: nombre}
	}
	return VerificacionAdministrativa{Criterios: cs}
}

func (v VerificacionAdministrativa) criterio(id int) Criterio {
	for _, c := range v.Criterios {
		if c.ID == id {
			return c
		}
	}
	return Criterio{ID: id}
}

// Completo reports whether every criterion is met or carries a note
func (v VerificacionAdministrativa) Completo() bool {
	for _, c := range v.Criterios {
		if !c.Cumple && strings.TrimSpace(c.Observacion) == "" {
			return false
		}
	}
	return true
}

func (w VerificacionAdminWire) ToView() VerificacionAdministrativa {
	v := NuevaVerificacionAdmin()
	v.Criterios[0].Cumple, v.Criterios[0].Observacion = w.CumpleAreaLinderos, w.ObservacionesAreaLinderos
	v.Criterios[1].Cumple, v.Criterios[1].Observacion = w.CumpleNormasRNE, w.ObservacionesNormasRNE
	v.Criterios[2].Cumple, v.Criterios[2].Observacion = w.CumpleNormasUrbanisticas, w.ObservacionesNormasUrbanisticas
	v.Criterios[3].Cumple, v.Criterios[3].Observacion = w.CumpleOtrosRequisitos, w.ObservacionesOtrosRequisitos
	return v
}

// ToWire builds the save payload with the derived b_completo flag
func (v VerificacionAdministrativa) ToWire(idTecnico FlexID, fecha time.Time) VerificacionAdminWire {
	c1, c2, c3, c4 := v.criterio(1), v.criterio(2), v.criterio(3), v.criterio(4)
	return VerificacionAdminWire{
		CumpleAreaLinderos:              c1.Cumple,
		ObservacionesAreaLinderos:       c1.Observacion,
		CumpleNormasRNE:                 c2.Cumple,
		ObservacionesNormasRNE:          c2.Observacion,
		CumpleNormasUrbanisticas:        c3.Cumple,
		ObservacionesNormasUrbanisticas: c3.Observacion,
		CumpleOtrosRequisitos:           c4.Cumple,
		ObservacionesOtrosRequisitos:    c4.Observacion,
		FechaVerificacion:               fecha.Format(DateLayout),
		IDTecnicoVerificador:            idTecnico,
		Completo:                        v.Completo(),
	}
}

package model

import "strings"

// ProgramacionWire is a scheduled verification visit on the wire
type ProgramacionWire struct {
	IDProgramacion    FlexID `json:"id_programacion,omitempty"`
	IDExpediente      FlexID `json:"id_expediente"`
	IDTecnico         FlexID `json:"id_tecnico"`
	FechaVerificacion string `json:"d_fecha_verificacion"`
	HoraVerificacion  string `json:"t_hora_verificacion"`
	Observaciones     string `json:"observaciones,omitempty"`
	FechaCreacion     string `json:"d_fecha_creacion,omitempty"`
	Activo            *bool  `json:"b_activo,omitempty"`
}

// Programacion is the editable schedule of a técnico visit
type Programacion struct {
	ID            FlexID `json:"id,omitempty"`
	IDExpediente  FlexID `json:"idExpediente"`
	IDTecnico     FlexID `json:"idTecnico"`
	Fecha         string `json:"fecha"`
	Hora          string `json:"hora"`
	Observaciones string `json:"observaciones"`
	FechaCreacion string `json:"fechaCreacion,omitempty"`
	Activo        bool   `json:"activo"`
}

func (w ProgramacionWire) ToView() Programacion {
	hora := w.HoraVerificacion
	if len(hora) > 5 {
		hora = hora[:5]
	}
	activo := true
	if w.Activo != nil {
		activo = *w.Activo
	}
	return Programacion{
		ID:            w.IDProgramacion,
		IDExpediente:  w.IDExpediente,
		IDTecnico:     w.IDTecnico,
		Fecha:         w.FechaVerificacion,
		Hora:          hora,
		Observaciones: w.Observaciones,
		FechaCreacion: w.FechaCreacion,
		Activo:        activo,
	}
}

// ToWire appends seconds to the HH:MM hora
func (p Programacion) ToWire() ProgramacionWire {
	hora := strings.TrimSpace(p.Hora)
	if len(hora) <= 5 && hora != "" {
		hora += ":00"
	}
	return ProgramacionWire{
		IDProgramacion:    p.ID,
		IDExpediente:      p.IDExpediente,
		IDTecnico:         p.IDTecnico,
		FechaVerificacion: p.Fecha,
		HoraVerificacion:  hora,
		Observaciones:     p.Observaciones,
	}
}

package model

import "encoding/json"

// Expediente is a case file as listed by the técnico search endpoints
type Expediente struct {
	IDExpediente       FlexID `json:"id_expediente,omitempty"`
	IDSolicitud        FlexID `json:"id_solicitud,omitempty"`
	Expediente         FlexID `json:"expediente,omitempty"`
	DNI                string `json:"dni"`
	Administrado       string `json:"administrado"`
	FechaRegistro      string `json:"fecha_registro"`
	IDTecnico          FlexID `json:"id_tecnico,omitempty"`
	Tecnico            string `json:"tecnico,omitempty"`
	EstadoVerificacion string `json:"estado_verificacion,omitempty"`
	FechaVerificacion  string `json:"fecha_verificacion,omitempty"`
	HoraVerificacion   string `json:"hora_verificacion,omitempty"`
}

// UnmarshalJSON coalesces the alias field names used across endpoints
func (e *Expediente) UnmarshalJSON(data []byte) error {
	type plain Expediente
	var aux struct {
		plain
		ID             FlexID `json:"id"`
		NroExp         FlexID `json:"nroExp"`
		NombreCompleto string `json:"nombre_completo"`
		EstadoVerif    string `json:"estadoVerif"`
		FechaVerif     string `json:"fechaVerificacion"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = Expediente(aux.plain)
	if !e.IDExpediente.Valid() && aux.ID.Valid() {
		e.IDExpediente = aux.ID
	}
	if !e.Expediente.Valid() && aux.NroExp.Valid() {
		e.Expediente = aux.NroExp
	}
	if e.Administrado == "" {
		e.Administrado = aux.NombreCompleto
	}
	if e.EstadoVerificacion == "" {
		e.EstadoVerificacion = aux.EstadoVerif
	}
	if e.FechaVerificacion == "" {
		e.FechaVerificacion = aux.FechaVerif
	}
	return nil
}

// Tecnico is a reviewing technician
type Tecnico struct {
	IDTecnico FlexID `json:"id_tecnico"`
	Nombre    string `json:"c_nombre_tecnico"`
	DNI       string `json:"c_dni_tecnico"`
}

// Label renders the técnico the way selection lists show it
func (t Tecnico) Label() string {
	if t.DNI == "" {
		return t.Nombre
	}
	return t.Nombre + " - " + t.DNI
}

// Solicitud is an intake row at mesa de partes, before a case number exists
type Solicitud struct {
	IDSolicitud    FlexID `json:"id_solicitud"`
	DNI            string `json:"dni"`
	NombreCompleto string `json:"nombre_completo"`
	FechaRegistro  string `json:"fecha_registro"`
}

// RegistroExpediente assigns a case number and técnico to a solicitud
type RegistroExpediente struct {
	IDSolicitud FlexID `json:"id_solicitud"`
	Expediente  string `json:"expediente"`
	IDTecnico   FlexID `json:"id_tecnico"`
}

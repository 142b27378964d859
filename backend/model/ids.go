package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrMissingExpedienteID is returned when no canonical expediente id can be resolved
var ErrMissingExpedienteID = errors.New("el expediente no tiene un ID válido")

// FlexID is an identifier the backend sends either as a JSON number or a string
type FlexID string

// UnmarshalJSON accepts numbers, strings and null
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexID(n.String())
	return nil
}

// MarshalJSON writes canonical integers as numbers and everything else,
// including zero-padded or signed forms, as strings
func (f FlexID) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(f), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(f) {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

func (f FlexID) String() string {
	return string(f)
}

// Valid reports whether the id carries a usable value
func (f FlexID) Valid() bool {
	s := strings.TrimSpace(string(f))
	return s != "" && s != "undefined" && s != "null"
}

// ExpedienteRef carries every field a case file may be identified by.
// Different endpoints populate different subsets of these.
type ExpedienteRef struct {
	IDExpediente FlexID `json:"id_expediente,omitempty"`
	IDSolicitud  FlexID `json:"id_solicitud,omitempty"`
	Expediente   FlexID `json:"expediente,omitempty"`
}

// ResolveExpedienteID returns the canonical id using the fixed precedence
// id_expediente, id_solicitud, expediente.
func ResolveExpedienteID(ref ExpedienteRef) (string, error) {
	for _, candidate := range []FlexID{ref.IDExpediente, ref.IDSolicitud, ref.Expediente} {
		if candidate.Valid() {
			return strings.TrimSpace(string(candidate)), nil
		}
	}
	return "", ErrMissingExpedienteID
}

// Ref returns the identifier fields of an expediente
func (e Expediente) Ref() ExpedienteRef {
	return ExpedienteRef{
		IDExpediente: e.IDExpediente,
		IDSolicitud:  e.IDSolicitud,
		Expediente:   e.Expediente,
	}
}

// Package validation holds the synchronous checks a draft must pass before
// it is saved. Every check is pure and returns the full list of messages.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

// Result is the outcome of validating one draft
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func result(errs []string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// OK is the result of a draft with nothing to check
func OK() Result {
	return result(nil)
}

// Numeric checks an editable number: blank passes unless mandatory, anything
// else must parse and be zero or more.
func Numeric(campo, valor string, obligatorio bool) []string {
	valor = strings.TrimSpace(valor)
	if valor == "" {
		if obligatorio {
			return []string{fmt.Sprintf("El campo \"%s\" es requerido", campo)}
		}
		return nil
	}
	v, err := strconv.ParseFloat(valor, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return []string{fmt.Sprintf("El campo \"%s\" debe ser un número válido", campo)}
	}
	if v < 0 {
		return []string{fmt.Sprintf("El campo \"%s\" no puede ser negativo", campo)}
	}
	return nil
}

// Required fails when the trimmed value is empty
func Required(mensaje, valor string) []string {
	if strings.TrimSpace(valor) == "" {
		return []string{mensaje}
	}
	return nil
}

// Checklist requires every item to carry a decided estado
func Checklist(items []model.Requisito) []string {
	if len(items) == 0 {
		return []string{"No hay requisitos para validar"}
	}
	var errs []string
	for _, it := range items {
		switch strings.TrimSpace(it.Estado) {
		case "", model.EstadoPendiente:
			errs = append(errs, fmt.Sprintf("El requisito \"%s\" no está completo", it.Nombre))
		}
	}
	return errs
}

// Floors requires at least one floor, valid numbers, and for each floor an
// area above zero or a note.
func Floors(pisos []model.Piso) []string {
	if len(pisos) == 0 {
		return []string{"Debe agregar al menos un piso"}
	}
	var errs []string
	for i, p := range pisos {
		numero := p.Numero
		if numero <= 0 {
			numero = i + 1
		}
		tieneArea := false
		for _, campo := range model.AreaFields {
			for _, msg := range Numeric(campo, p.Field(campo), false) {
				errs = append(errs, fmt.Sprintf("Piso %d: %s", numero, msg))
			}
			if model.ParseNumber(p.Field(campo)) > 0 {
				tieneArea = true
			}
		}
		if !tieneArea && strings.TrimSpace(p.Observacion) == "" {
			errs = append(errs, fmt.Sprintf("Piso %d: Debe ingresar al menos un área o una observación", numero))
		}
	}
	return errs
}

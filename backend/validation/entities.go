package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

var (
	horaPattern    = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
	periodoPattern = regexp.MustCompile(`^\d{4}$`)
)

func Requisitos(r model.Requisitos) Result {
	return result(Checklist(r.Requisitos))
}

func CuadroAreas(c model.CuadroAreas) Result {
	return result(Floors(c.Pisos))
}

func Parametros(p model.ParametrosUrbanisticos) Result {
	var errs []string
	errs = append(errs, Numeric("areaTerritorial", p.AreaTerritorial, false)...)
	errs = append(errs, Numeric("areaActUrb", p.AreaActUrb, false)...)
	errs = append(errs, Numeric("areaLoteNormativo", p.AreaLoteNormativo, false)...)
	errs = append(errs, Required("La zonificación es requerida", p.Zonificacion)...)
	return result(errs)
}

// VerificacionAdmin only checks that the fixed criteria are present.
// Completeness is reported through b_completo and does not block a save.
func VerificacionAdmin(v model.VerificacionAdministrativa) Result {
	var errs []string
	for i := range model.CriteriosAdministrativos {
		found := slices.ContainsFunc(v.Criterios, func(c model.Criterio) bool { return c.ID == i+1 })
		if !found {
			errs = append(errs, fmt.Sprintf("Falta el criterio \"%s\"", model.CriteriosAdministrativos[i]))
		}
	}
	return result(errs)
}

// Programacion checks a visit schedule against the given day
func Programacion(p model.Programacion, hoy time.Time) Result {
	var errs []string
	errs = append(errs, Required("El ID del expediente es obligatorio", p.IDExpediente.String())...)
	if fecha := strings.TrimSpace(p.Fecha); fecha == "" {
		errs = append(errs, "La fecha es obligatoria")
	} else if d, err := time.ParseInLocation(model.DateLayout, fecha, hoy.Location()); err != nil {
		errs = append(errs, "La fecha no tiene un formato válido")
	} else {
		inicio := time.Date(hoy.Year(), hoy.Month(), hoy.Day(), 0, 0, 0, 0, hoy.Location())
		if d.Before(inicio) {
			errs = append(errs, "La fecha no puede ser anterior al día actual")
		}
	}
	if hora := strings.TrimSpace(p.Hora); hora == "" {
		errs = append(errs, "La hora es obligatoria")
	} else if !horaPattern.MatchString(hora) {
		errs = append(errs, "El formato de hora debe ser HH:MM")
	}
	errs = append(errs, Required("El ID del técnico es obligatorio", p.IDTecnico.String())...)
	return result(errs)
}

func Observacion(o model.NuevaObservacion) Result {
	var errs []string
	errs = append(errs, Required("El ID del expediente es requerido", o.IDExpediente.String())...)
	errs = append(errs, Required("El ID del técnico es requerido", o.IDTecnico.String())...)
	errs = append(errs, Required("La descripción de la observación es requerida", o.Descripcion)...)
	return result(errs)
}

// Documento checks one upload before it is staged
func Documento(nombre, mime string, size int64) Result {
	switch {
	case !model.MimePermitido(mime):
		return result([]string{fmt.Sprintf("\"%s\": Tipo de archivo no permitido", nombre)})
	case size > model.MaxDocumentoBytes:
		return result([]string{fmt.Sprintf("\"%s\": Archivo demasiado grande (máximo 10MB)", nombre)})
	}
	return OK()
}

func Predio(p model.Predio) Result {
	var errs []string
	if p.Tipo != model.PredioUrbano && p.Tipo != model.PredioRural {
		errs = append(errs, "El tipo de predio debe ser URBANO o RURAL")
	}
	if !periodoPattern.MatchString(strings.TrimSpace(p.Periodo)) {
		errs = append(errs, "El período debe ser un año de cuatro dígitos")
	}
	errs = append(errs, Required("El documento del titular es obligatorio", p.Documento)...)
	if p.Condicion != "" && !slices.Contains(model.CondicionesPredio, p.Condicion) {
		errs = append(errs, fmt.Sprintf("La condición \"%s\" no es válida", p.Condicion))
	}
	return result(errs)
}

// RegistroExpediente checks a mesa de partes registration
func RegistroExpediente(r model.RegistroExpediente) Result {
	var errs []string
	errs = append(errs, Required("La solicitud no tiene un ID válido", r.IDSolicitud.String())...)
	errs = append(errs, Required("El número de expediente es obligatorio", r.Expediente)...)
	errs = append(errs, Required("Debe asignar un técnico", r.IDTecnico.String())...)
	return result(errs)
}

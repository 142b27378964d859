package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

func TestCuadroAreas(t *testing.T) {
	ok := model.CuadroAreas{Pisos: []model.Piso{{Numero: 1, Existente: "50", Ampliacion: "10"}}}
	if res := CuadroAreas(ok); !res.Valid {
		t.Errorf("Expected valid cuadro, got %v", res.Errors)
	}

	blank := model.NuevoCuadroAreas()
	if res := CuadroAreas(blank); res.Valid {
		t.Error("Expected a blank floor without note to fail")
	}
}

func TestParametros(t *testing.T) {
	p := model.NuevosParametros()
	res := Parametros(p)
	if res.Valid {
		t.Fatal("Expected missing zonificacion to fail")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "La zonificación es requerida" {
		t.Errorf("Unexpected errors %v", res.Errors)
	}

	p.Zonificacion = "RDM"
	p.AreaTerritorial = "abc"
	p.AreaLoteNormativo = "-3"
	res = Parametros(p)
	if len(res.Errors) != 2 {
		t.Errorf("Expected 2 numeric errors, got %v", res.Errors)
	}

	p.AreaTerritorial = "120.5"
	p.AreaLoteNormativo = ""
	if res := Parametros(p); !res.Valid {
		t.Errorf("Expected valid parametros, got %v", res.Errors)
	}
}

func TestVerificacionAdmin(t *testing.T) {
	v := model.NuevaVerificacionAdmin()
	if res := VerificacionAdmin(v); !res.Valid {
		t.Errorf("Expected unchecked criteria to pass, got %v", res.Errors)
	}

	v.Criterios = v.Criterios[:2]
	res := VerificacionAdmin(v)
	if len(res.Errors) != 2 {
		t.Errorf("Expected 2 missing criteria, got %v", res.Errors)
	}
}

func TestProgramacion(t *testing.T) {
	hoy := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		p        model.Programacion
		wantErrs []string
	}{
		{
			name: "valid today",
			p:    model.Programacion{IDExpediente: "2417", IDTecnico: "7", Fecha: "2026-03-10", Hora: "09:30"},
		},
		{
			name:     "past date",
			p:        model.Programacion{IDExpediente: "2417", IDTecnico: "7", Fecha: "2026-03-09", Hora: "09:30"},
			wantErrs: []string{"La fecha no puede ser anterior al día actual"},
		},
		{
			name:     "bad hour",
			p:        model.Programacion{IDExpediente: "2417", IDTecnico: "7", Fecha: "2026-04-01", Hora: "25:00"},
			wantErrs: []string{"El formato de hora debe ser HH:MM"},
		},
		{
			name: "everything missing",
			p:    model.Programacion{},
			wantErrs: []string{
				"El ID del expediente es obligatorio",
				"La fecha es obligatoria",
				"La hora es obligatoria",
				"El ID del técnico es obligatorio",
			},
		},
		{
			name:     "unparsable date",
			p:        model.Programacion{IDExpediente: "2417", IDTecnico: "7", Fecha: "10/03/2026", Hora: "9:05"},
			wantErrs: []string{"La fecha no tiene un formato válido"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Programacion(tt.p, hoy)
			if res.Valid != (len(tt.wantErrs) == 0) {
				t.Errorf("Expected valid=%v, got %v", len(tt.wantErrs) == 0, res.Valid)
			}
			if strings.Join(res.Errors, "|") != strings.Join(tt.wantErrs, "|") {
				t.Errorf("Expected %v, got %v", tt.wantErrs, res.Errors)
			}
		})
	}
}

func TestObservacion(t *testing.T) {
	res := Observacion(model.NuevaObservacion{IDExpediente: "2417", IDTecnico: "7", Descripcion: "  "})
	if res.Valid || len(res.Errors) != 1 {
		t.Errorf("Expected only the description error, got %v", res.Errors)
	}
	res = Observacion(model.NuevaObservacion{IDExpediente: "2417", IDTecnico: "7", Descripcion: "Falta firma"})
	if !res.Valid {
		t.Errorf("Expected valid observacion, got %v", res.Errors)
	}
}

func TestDocumento(t *testing.T) {
	if res := Documento("plano.pdf", "application/pdf", 1024); !res.Valid {
		t.Errorf("Expected pdf to pass, got %v", res.Errors)
	}
	if res := Documento("script.sh", "text/x-shellscript", 10); res.Valid || !strings.Contains(res.Errors[0], "Tipo de archivo no permitido") {
		t.Errorf("Expected MIME rejection, got %+v", res)
	}
	if res := Documento("scan.tiff", "image/tiff", model.MaxDocumentoBytes+1); res.Valid || !strings.Contains(res.Errors[0], "demasiado grande") {
		t.Errorf("Expected size rejection, got %+v", res)
	}
	if res := Documento("limite.png", "image/png", model.MaxDocumentoBytes); !res.Valid {
		t.Errorf("Expected file at the limit to pass, got %v", res.Errors)
	}
}

func TestPredio(t *testing.T) {
	p := model.Predio{Tipo: model.PredioUrbano, Periodo: "2024", Documento: "75257565", Condicion: "HABITADO", Area: "120"}
	if res := Predio(p); !res.Valid {
		t.Errorf("Expected valid predio, got %v", res.Errors)
	}

	p = model.Predio{Tipo: "MIXTO", Periodo: "24", Condicion: "ABANDONADO"}
	res := Predio(p)
	if len(res.Errors) != 4 {
		t.Errorf("Expected 4 errors, got %v", res.Errors)
	}
}

func TestRegistroExpediente(t *testing.T) {
	res := RegistroExpediente(model.RegistroExpediente{IDSolicitud: "31"})
	if len(res.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %v", res.Errors)
	}
	res = RegistroExpediente(model.RegistroExpediente{IDSolicitud: "31", Expediente: "2417", IDTecnico: "7"})
	if !res.Valid {
		t.Errorf("Expected valid registro, got %v", res.Errors)
	}
}

package validation

import (
	"strings"
	"testing"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/model"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		obligatorio bool
		wantErrs    int
	}{
		{"blank optional", "", false, 0},
		{"whitespace optional", "   ", false, 0},
		{"blank mandatory", "", true, 1},
		{"integer", "50", false, 0},
		{"decimal", "12.75", true, 0},
		{"zero", "0", false, 0},
		{"negative", "-1", false, 1},
		{"not a number", "abc", false, 1},
		{"NaN literal", "NaN", false, 1},
		{"infinity", "Inf", false, 1},
		{"negative infinity", "-Infinity", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Numeric("area", tt.value, tt.obligatorio)
			if len(errs) != tt.wantErrs {
				t.Errorf("Expected %d errors, got %v", tt.wantErrs, errs)
			}
		})
	}
}

func TestRequired(t *testing.T) {
	if errs := Required("falta", " \t"); len(errs) != 1 || errs[0] != "falta" {
		t.Errorf("Expected the configured message, got %v", errs)
	}
	if errs := Required("falta", "x"); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
}

func TestRequisitosPendingItemsFail(t *testing.T) {
	r := model.NuevosRequisitos()
	r.Requisitos[0].Estado = ""
	r.Requisitos[1].Estado = model.EstadoCumple

	res := Requisitos(r)
	if res.Valid {
		t.Fatal("Expected invalid checklist")
	}
	if len(res.Errors) != 5 {
		t.Fatalf("Expected one error per undecided item (5), got %d: %v", len(res.Errors), res.Errors)
	}
	if !strings.Contains(res.Errors[0], `"Fue"`) {
		t.Errorf("Expected the item name in the message, got %s", res.Errors[0])
	}
}

func TestRequisitosAllDecidedPass(t *testing.T) {
	r := model.NuevosRequisitos()
	for i := range r.Requisitos {
		r.Requisitos[i].Estado = model.EstadoCumple
	}
	r.Requisitos[5].Estado = model.EstadoNoCumple

	res := Requisitos(r)
	if !res.Valid {
		t.Fatalf("Expected valid checklist, got %v", res.Errors)
	}
	if res.Errors == nil {
		t.Error("Expected an empty, non-nil error list")
	}
	if got := r.Resumen().PorcentajeCumplimiento; got != 83 {
		t.Errorf("Expected 83%%, got %d", got)
	}
}

func TestRequisitosEmpty(t *testing.T) {
	res := Requisitos(model.Requisitos{})
	if res.Valid || len(res.Errors) != 1 || res.Errors[0] != "No hay requisitos para validar" {
		t.Errorf("Unexpected result %+v", res)
	}
}

func TestFloors(t *testing.T) {
	tests := []struct {
		name     string
		pisos    []model.Piso
		wantErrs int
	}{
		{"no floors", nil, 1},
		{"existente and ampliacion", []model.Piso{{Numero: 1, Existente: "50", Ampliacion: "10"}}, 0},
		{"all blank without note", []model.Piso{{Numero: 1}}, 1},
		{"all blank with note", []model.Piso{{Numero: 1, Observacion: "Sin construcción"}}, 0},
		{"zeros without note", []model.Piso{{Numero: 1, Existente: "0", Nuevo: "0"}}, 1},
		{"negative area", []model.Piso{{Numero: 2, Nuevo: "-5", Existente: "3"}}, 1},
		{"two bad floors", []model.Piso{{Numero: 1}, {Numero: 2, Demolicion: "x"}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Floors(tt.pisos)
			if len(errs) != tt.wantErrs {
				t.Errorf("Expected %d errors, got %v", tt.wantErrs, errs)
			}
		})
	}
}

func TestFloorsMessageNamesFloor(t *testing.T) {
	errs := Floors([]model.Piso{{Numero: 3}})
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %v", errs)
	}
	if errs[0] != "Piso 3: Debe ingresar al menos un área o una observación" {
		t.Errorf("Unexpected message %s", errs[0])
	}
}

package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCalcularTotalesBlankIsZero(t *testing.T) {
	pisos := []Piso{
		{Numero: 1, Existente: "50", Ampliacion: "10"},
		{Numero: 2, Existente: "", Nuevo: "25.5", Observacion: "sin ampliación"},
	}
	tot := CalcularTotales(pisos)
	if tot.Existente != 50 {
		t.Errorf("Expected existente 50, got %v", tot.Existente)
	}
	if tot.Ampliacion != 10 {
		t.Errorf("Expected ampliacion 10, got %v", tot.Ampliacion)
	}
	if tot.Nuevo != 25.5 {
		t.Errorf("Expected nuevo 25.5, got %v", tot.Nuevo)
	}
	if pisos[1].Existente != "" {
		t.Error("Blank area must stay blank in the row")
	}
}

func TestCalcularTotalesNonFiniteIsZero(t *testing.T) {
	pisos := []Piso{
		{Numero: 1, Existente: "NaN", Ampliacion: "Inf", Nuevo: "12"},
		{Numero: 2, Demolicion: "1e308"},
		{Numero: 3, Demolicion: "1e308"},
	}
	tot := CalcularTotales(pisos)
	if tot.Existente != 0 || tot.Ampliacion != 0 || tot.Nuevo != 12 || tot.Demolicion != 0 {
		t.Errorf("Unexpected totals %+v", tot)
	}
	if _, err := json.Marshal(tot); err != nil {
		t.Errorf("Totals must stay serializable: %v", err)
	}
}

func TestCuadroAreasToWire(t *testing.T) {
	c := CuadroAreas{
		Pisos: []Piso{
			{Numero: 1, Existente: "50", Ampliacion: "10"},
			{Numero: 2, Remodelacion: "5"},
		},
		ObservacionesGenerales: "ok",
	}
	w := c.ToWire("3", time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))

	if len(w.DetallesPisos) != 2 {
		t.Fatalf("Expected 2 detalles, got %d", len(w.DetallesPisos))
	}
	if w.DetallesPisos[1].NumeroPiso != "Piso 2" {
		t.Errorf("Expected 'Piso 2', got %q", w.DetallesPisos[1].NumeroPiso)
	}
	if w.AreaExistenteTotal != 50 || w.AreaAmpliacionTotal != 10 || w.AreaRemodelacionTotal != 5 {
		t.Errorf("Unexpected totals %+v", w)
	}
	if w.FechaVerificacion != "2025-03-14" {
		t.Errorf("Expected fecha 2025-03-14, got %q", w.FechaVerificacion)
	}
	if w.IDTecnicoVerificador != "3" {
		t.Errorf("Expected técnico 3, got %q", w.IDTecnicoVerificador)
	}
}

func TestCuadroAreasFromWireAliases(t *testing.T) {
	detalles := []Record{
		{"id_detalle": float64(8), "c_numero_piso": "Piso 1", "n_existente_m2": float64(40), "c_observaciones": "a"},
		{"c_numero_piso": "Piso 2", "n_area_existente": float64(20), "n_area_nueva": float64(3), "c_observaciones_piso": "b"},
	}
	c := CuadroAreasFromWire(Record{"n_total_existente": float64(999), "c_observaciones_generales": "gen"}, detalles)

	if len(c.Pisos) != 2 {
		t.Fatalf("Expected 2 pisos, got %d", len(c.Pisos))
	}
	if c.Pisos[0].ID != "8" || c.Pisos[0].Existente != "40" || c.Pisos[0].Observacion != "a" {
		t.Errorf("Unexpected first piso %+v", c.Pisos[0])
	}
	if c.Pisos[1].Numero != 2 || c.Pisos[1].Nuevo != "3" || c.Pisos[1].Observacion != "b" {
		t.Errorf("Unexpected second piso %+v", c.Pisos[1])
	}
	// totals come from the rows, not the stored aggregate
	if c.Totales.Existente != 60 {
		t.Errorf("Expected existente total 60, got %v", c.Totales.Existente)
	}
	if c.ObservacionesGenerales != "gen" {
		t.Errorf("Expected observaciones generales 'gen', got %q", c.ObservacionesGenerales)
	}
}

func TestCuadroAreasFromWireEmpty(t *testing.T) {
	c := CuadroAreasFromWire(Record{}, nil)
	if len(c.Pisos) != 1 || c.Pisos[0].Numero != 1 {
		t.Errorf("Expected one blank floor, got %+v", c.Pisos)
	}
}

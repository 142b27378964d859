package model

import (
	"reflect"
	"testing"
)

func TestPlanReconcile(t *testing.T) {
	existing := []Observacion{
		{IDObservacion: "1", Descripcion: "Falta plano de ubicación"},
		{IDObservacion: "2", Descripcion: "Firma ilegible"},
		{IDObservacion: "3", Descripcion: "Firma ilegible"},
	}
	plan := PlanReconcile(existing, []string{"Firma ilegible", "  Nuevo retiro  ", ""})

	if !reflect.DeepEqual(plan.Delete, []FlexID{"1", "3"}) {
		t.Errorf("Unexpected deletes %v", plan.Delete)
	}
	if !reflect.DeepEqual(plan.Create, []string{"Nuevo retiro"}) {
		t.Errorf("Unexpected creates %v", plan.Create)
	}
}

func TestPlanReconcileAllBlankDeletesEverything(t *testing.T) {
	existing := []Observacion{{IDObservacion: "1", Descripcion: "a"}, {IDObservacion: "2", Descripcion: "b"}}
	plan := PlanReconcile(existing, []string{"", "   "})
	if len(plan.Delete) != 2 || len(plan.Create) != 0 {
		t.Errorf("Expected every row deleted, got %+v", plan)
	}
}

func TestObservacionesFromRows(t *testing.T) {
	o := ObservacionesFromRows(nil)
	if len(o.Textos) != 1 || o.Textos[0] != "" {
		t.Errorf("Expected a single blank text, got %v", o.Textos)
	}
	o = ObservacionesFromRows([]Observacion{{Descripcion: "x"}})
	if got := o.NoVacias(); len(got) != 1 || got[0] != "x" {
		t.Errorf("Unexpected texts %v", got)
	}
}

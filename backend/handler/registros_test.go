package handler

import (
	"net/http"
	"testing"
)

func TestDeleteContribuyente(t *testing.T) {
	h := newHarness(t, nil)
	token := h.token(t, "cmendoza")

	body := expectStatus(t, h.do("DELETE", "/api/contribuyentes/05232717", token, nil), http.StatusOK)
	if body.Get("message").String() != "Contribuyente eliminado correctamente" {
		t.Errorf("Unexpected body %s", body.Raw)
	}
	if _, ok := h.mock.Store().Contribuyente("05232717"); ok {
		t.Error("Expected the contribuyente removed from the backend")
	}
	expectStatus(t, h.do("DELETE", "/api/contribuyentes/05232717", token, nil), http.StatusNotFound)
}

func TestProgramacionTecnicoAndDelete(t *testing.T) {
	h := newHarness(t, nil)
	token := h.token(t, "cmendoza")

	list := expectStatus(t, h.do("GET", "/api/tecnicos/1/programacion", token, nil), http.StatusOK)
	rows := list.Get("programaciones").Array()
	if len(rows) != 1 || rows[0].Get("hora").String() != "09:30" || rows[0].Get("id").String() != "51" {
		t.Fatalf("Unexpected schedule %s", list.Raw)
	}
	empty := expectStatus(t, h.do("GET", "/api/tecnicos/2/programacion", token, nil), http.StatusOK)
	if n := len(empty.Get("programaciones").Array()); n != 0 {
		t.Errorf("Expected an empty schedule, got %d rows", n)
	}

	expectStatus(t, h.do("DELETE", "/api/programacion/51", token, nil), http.StatusOK)
	list = expectStatus(t, h.do("GET", "/api/tecnicos/1/programacion", token, nil), http.StatusOK)
	if n := len(list.Get("programaciones").Array()); n != 0 {
		t.Errorf("Expected the schedule emptied, got %d rows", n)
	}
	expectStatus(t, h.do("DELETE", "/api/programacion/51", token, nil), http.StatusNotFound)
}

func TestUpdateObservacion(t *testing.T) {
	h := newHarness(t, nil)
	token := h.token(t, "cmendoza")

	body := expectStatus(t, h.do("PATCH", "/api/observaciones/31", token, map[string]string{
		"c_estado_observacion": "SUBSANADA",
		"d_fecha_resolucion":   "2024-03-20",
	}), http.StatusOK)
	if body.Get("data.c_estado_observacion").String() != "SUBSANADA" {
		t.Errorf("Unexpected body %s", body.Raw)
	}

	rows := h.mock.Store().Observaciones("1")
	var found bool
	for _, o := range rows {
		if o.IDObservacion == "31" {
			found = true
			if o.Estado != "SUBSANADA" || o.FechaResolucion != "2024-03-20" || o.Descripcion != "Falta firma del propietario" {
				t.Errorf("Unexpected stored observación %+v", o)
			}
		}
	}
	if !found {
		t.Fatal("Expected observación 31 still stored")
	}
}

func TestUpdateObservacionRejected(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           any
		expectedStatus int
	}{
		{"no changes", "/api/observaciones/31", map[string]string{}, http.StatusBadRequest},
		{"bad date", "/api/observaciones/31", map[string]string{"d_fecha_resolucion": "20/03/2024"}, http.StatusBadRequest},
		{"not json", "/api/observaciones/31", "{", http.StatusBadRequest},
		{"unknown observación", "/api/observaciones/999", map[string]string{"c_estado_observacion": "SUBSANADA"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			w := h.do("PATCH", tt.path, h.token(t, "cmendoza"), tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

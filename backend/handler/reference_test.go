package handler

import (
	"net/http"
	"testing"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/mockapi"
)

func TestReferenceLists(t *testing.T) {
	h := newHarness(t, nil)
	token := h.token(t, "cmendoza")

	tecnicos := expectStatus(t, h.do("GET", "/api/tecnicos", token, nil), http.StatusOK)
	if n := len(tecnicos.Get("tecnicos").Array()); n != 3 {
		t.Errorf("Expected 3 técnicos, got %d", n)
	}

	periodos := expectStatus(t, h.do("GET", "/api/predios/periodos", token, nil), http.StatusOK)
	if len(periodos.Get("periodos").Array()) == 0 {
		t.Error("Expected at least one periodo")
	}
}

func TestReferenceBackendFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.mock.Fail(http.MethodGet, "/urbano/tecnicos", mockapi.Fault{Status: http.StatusInternalServerError, Message: "Servicio no disponible"})

	body := expectStatus(t, h.do("GET", "/api/tecnicos", h.token(t, "cmendoza"), nil), http.StatusBadGateway)
	if body.Get("error").String() != "Servicio no disponible" {
		t.Errorf("Expected the backend message, got %s", body.Raw)
	}
}

package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/middleware"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/mockapi"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Auth = config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 1}
	cfg.Workflow = config.WorkflowConfig{DebounceMs: 50, SessionTTLMinutes: 5, MaxSessions: 3}
	cfg.Users = []config.User{
		{Username: "cmendoza", Password: "clave123", IDTecnico: "1", Nombre: "CARLOS MENDOZA QUISPE", DNI: "40123456"},
		{Username: "lhuaman", Password: "clave456", IDTecnico: "2", Nombre: "LUCIA HUAMAN TORRES", DNI: "41234567"},
	}
	return cfg
}

type harness struct {
	mock   *mockapi.Server
	cfg    *config.Config
	api    *API
	router *gin.Engine
}

// newHarness serves the API over a freshly seeded mock backend
func newHarness(t *testing.T, stager Stager) *harness {
	t.Helper()
	mock := mockapi.NewServer(mockapi.Seeded())
	srv := httptest.NewServer(mock.Router())
	t.Cleanup(srv.Close)

	cfg := testConfig()
	backend := service.NewBackend(service.NewClient(&config.BackendConfig{BaseURL: srv.URL, TimeoutSeconds: 5}))
	api := NewAPI(cfg, backend, stager)
	t.Cleanup(api.Close)

	router := gin.New()
	api.Register(router.Group("/api"))
	return &harness{mock: mock, cfg: cfg, api: api, router: router}
}

func (h *harness) token(t *testing.T, username string) string {
	t.Helper()
	user := h.cfg.FindUser(username)
	if user == nil {
		t.Fatalf("Unknown test user %s", username)
	}
	token, _, err := middleware.GenerateToken(*user, &h.cfg.Auth)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

// do sends body as JSON; a string body is sent verbatim
func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// openSession creates a session and returns its workflow route prefix
func (h *harness) openSession(t *testing.T, token string) string {
	t.Helper()
	w := h.do("POST", "/api/sessions", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	return "/api/sessions/" + gjson.Get(w.Body.String(), "id").String()
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) gjson.Result {
	t.Helper()
	if w.Code != status {
		t.Fatalf("Expected status %d, got %d: %s", status, w.Code, w.Body.String())
	}
	return gjson.Parse(w.Body.String())
}

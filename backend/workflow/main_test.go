package workflow

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/mockapi"
	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

var testPrincipal = Principal{
	IDTecnico: "1",
	Nombre:    "CARLOS MENDOZA QUISPE",
	DNI:       "40123456",
	Username:  "cmendoza",
}

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
}

// newMockDeps serves a freshly seeded mock backend and returns deps that
// talk to it
func newMockDeps(t *testing.T) (*mockapi.Server, Deps) {
	t.Helper()
	api := mockapi.NewServer(mockapi.Seeded())
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)

	client := service.NewClient(&config.BackendConfig{BaseURL: srv.URL, TimeoutSeconds: 5})
	return api, Deps{
		Backend:   service.NewBackend(client),
		Principal: testPrincipal,
		Now:       fixedNow,
	}
}

func build(t *testing.T, d Deps, entity string) Workflow {
	t.Helper()
	wf, err := Build(entity, d, Options{Debounce: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("Failed to build %s: %v", entity, err)
	}
	t.Cleanup(wf.Close)
	return wf
}

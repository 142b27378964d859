package middleware

import (
	"bufio"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

func TestRecoveryAnswersWithRequestID(t *testing.T) {
	buf := jsonLogs(t)

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.POST("/expedientes/:id/documentos", func(c *gin.Context) {
		var m map[string]int
		m[c.Param("id")]++
	})

	req := httptest.NewRequest(http.MethodPost, "/expedientes/7/documentos", nil)
	req.Header.Set("X-Request-ID", "req-panic")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := gjson.ParseBytes(w.Body.Bytes())
	if body.Get("error").String() != "Internal server error" || body.Get("request_id").String() != "req-panic" {
		t.Errorf("unexpected body %s", w.Body.String())
	}

	var entry gjson.Result
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := gjson.ParseBytes(sc.Bytes()); line.Get("msg").String() == "panic recovered" {
			entry = line
		}
	}
	if !entry.Exists() {
		t.Fatalf("panic not logged: %s", buf.String())
	}
	if entry.Get("request_id").String() != "req-panic" || entry.Get("path").String() != "/expedientes/7/documentos" {
		t.Errorf("unexpected log entry %s", entry.Raw)
	}
	if entry.Get("stack").String() == "" {
		t.Error("stack missing from the log entry")
	}
}

func TestRecoveryPassesThrough(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNewJSONWithService(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "warn", Format: "json", Output: &buf, Service: "backoffice"})

	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("Expected info to be filtered at warn, got %q", buf.String())
	}

	l.Warn("kept", "entity", "requisitos")
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Expected a JSON record, got %q: %v", buf.String(), err)
	}
	if record["service"] != "backoffice" || record["entity"] != "requisitos" || record["msg"] != "kept" {
		t.Errorf("Unexpected record %v", record)
	}
}

func TestInitInstallsDefault(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: "debug", Format: "text", Output: &buf})

	Debug(context.Background(), "debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Errorf("Expected debug message in log, got %q", buf.String())
	}
}

func TestLogFunctions(t *testing.T) {
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	logs := map[string]func(context.Context, string, ...any){
		"level=INFO":  Info,
		"level=DEBUG": Debug,
		"level=WARN":  Warn,
		"level=ERROR": Error,
	}
	for level, log := range logs {
		buf.Reset()
		log(ctx, "mensaje")
		if !strings.Contains(buf.String(), level) || !strings.Contains(buf.String(), "request_id=req-123") {
			t.Errorf("Expected %s with the request id, got %q", level, buf.String())
		}
	}
}

func TestWithContextFields(t *testing.T) {
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-9")
	ctx = context.WithValue(ctx, UsernameKey, "tecnico1")
	ctx = context.WithValue(ctx, TecnicoKey, "7")

	Info(ctx, "guardado")
	out := buf.String()
	for _, want := range []string{"request_id=req-9", "username=tecnico1", "id_tecnico=7"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in log line %q", want, out)
		}
	}

	buf.Reset()
	Info(context.Background(), "anonimo")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("Expected no context attrs, got %q", buf.String())
	}
}

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	UsernameKey  ContextKey = "username"
	// TecnicoKey holds the id of the técnico the request acts for
	TecnicoKey ContextKey = "id_tecnico"
)

// contextAttrs are copied from the context onto every record, in this order
var contextAttrs = []ContextKey{RequestIDKey, UsernameKey, TecnicoKey}

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	// Output defaults to stdout
	Output io.Writer
	// Service is attached to every record when set
	Service string
}

// ParseLevel maps a config level to slog, falling back to info
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// New builds a logger from the configuration without installing it
func New(cfg *Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	l := slog.New(handler)
	if cfg.Service != "" {
		l = l.With("service", cfg.Service)
	}
	return l
}

// Init installs the configured logger as the slog default
func Init(cfg *Config) {
	slog.SetDefault(New(cfg))
}

// WithContext returns the default logger carrying the request id, username
// and técnico found in ctx
func WithContext(ctx context.Context) *slog.Logger {
	l := slog.Default()
	if ctx == nil {
		return l
	}
	for _, key := range contextAttrs {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			l = l.With(string(key), v)
		}
	}
	return l
}

func Info(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Info(msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Debug(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Error(msg, args...)
}

package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newTestLogger(t *testing.T, level string) (*ZapLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(level, &buf)
	if err != nil {
		t.Fatalf("NewLoggerWithWriter: %v", err)
	}
	return logger, &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}
	return entry
}

// TestLogger_IncludesProbeFields verifies probe fields are present in log output.
func TestLogger_IncludesProbeFields(t *testing.T) {
	logger, buf := newTestLogger(t, "info")

	logger.WithProbe(ProbeMeta{Name: "database", Critical: true}).Info(context.Background(), "test message")

	entry := decodeEntry(t, buf)
	if v, ok := entry["probe.name"].(string); !ok || v != "database" {
		t.Errorf("expected probe.name='database', got %v", entry["probe.name"])
	}
	if v, ok := entry["probe.critical"].(bool); !ok || !v {
		t.Errorf("expected probe.critical=true, got %v", entry["probe.critical"])
	}
	if entry["msg"] != "test message" {
		t.Errorf("expected msg='test message', got %v", entry["msg"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

// TestLogger_Levels verifies each method writes at its level.
func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		log   func(Logger)
	}{
		{"debug", func(l Logger) { l.Debug(context.Background(), "m") }},
		{"info", func(l Logger) { l.Info(context.Background(), "m") }},
		{"warn", func(l Logger) { l.Warn(context.Background(), "m") }},
		{"error", func(l Logger) { l.Error(context.Background(), "m", Field{Key: "error", Value: "connection timeout"}) }},
	}

	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			logger, buf := newTestLogger(t, "debug")
			tc.log(logger)

			entry := decodeEntry(t, buf)
			if entry["level"] != tc.level {
				t.Errorf("expected level=%q, got %v", tc.level, entry["level"])
			}
		})
	}
}

// TestLogger_LevelFiltering verifies log level filtering.
func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(t, "warn")

	logger.Info(context.Background(), "info message")
	if strings.Contains(buf.String(), "info message") {
		t.Error("info message should be filtered when level is warn")
	}

	logger.Warn(context.Background(), "warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Error("warn message should pass through when level is warn")
	}
}

// TestLogger_SecretsRedacted verifies credential-bearing fields are not logged.
func TestLogger_SecretsRedacted(t *testing.T) {
	logger, buf := newTestLogger(t, "info")

	logger.Info(context.Background(), "dependency configured",
		Field{Key: "password", Value: "hunter2"},
		Field{Key: "DSN", Value: "postgres://u:hunter2@db/app"},
		Field{Key: "address", Value: "postgres://u:xxxxx@db/app"},
	)

	out := buf.String()
	if strings.Contains(out, "hunter2") {
		t.Errorf("secret leaked into log output: %s", out)
	}
	entry := decodeEntry(t, buf)
	if entry["password"] != "[REDACTED]" {
		t.Errorf("expected password redacted, got %v", entry["password"])
	}
	if entry["address"] != "postgres://u:xxxxx@db/app" {
		t.Errorf("non-sensitive field should pass through, got %v", entry["address"])
	}
}

func TestLogger_WithAddsFields(t *testing.T) {
	logger, buf := newTestLogger(t, "info")

	logger.With(Field{Key: "component", Value: "server"}).Info(context.Background(), "listening")

	entry := decodeEntry(t, buf)
	if entry["component"] != "server" {
		t.Errorf("expected component='server', got %v", entry["component"])
	}
}

func TestLogger_ContextCarriesRunAndTrace(t *testing.T) {
	logger, buf := newTestLogger(t, "info")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx := WithRunID(context.Background(), "run-1")
	ctx, span := tp.Tracer("test").Start(ctx, "op")
	defer span.End()

	logger.Info(ctx, "traced")

	entry := decodeEntry(t, buf)
	if entry["run_id"] != "run-1" {
		t.Errorf("expected run_id='run-1', got %v", entry["run_id"])
	}
	if entry["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace_id to match span, got %v", entry["trace_id"])
	}
	if _, ok := entry["span_id"]; !ok {
		t.Error("expected span_id field")
	}
}

func TestLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LoggingConfig{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info(context.Background(), "plain text")
	out := buf.String()
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "plain text") {
		t.Errorf("unexpected console output: %q", out)
	}
	if strings.HasPrefix(out, "{") {
		t.Errorf("console output should not be JSON: %q", out)
	}
}

func TestLogger_RotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probekit.log")
	logger, err := NewLogger(LoggingConfig{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info(context.Background(), "to file")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !bytes.Contains(data, []byte("to file")) {
		t.Errorf("expected entry in log file, got %q", data)
	}
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	if _, err := NewLogger(LoggingConfig{Level: "loud"}); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("expected ErrInvalidLogLevel, got %v", err)
	}
	if _, err := NewLogger(LoggingConfig{Format: "xml"}); !errors.Is(err, ErrInvalidLogFormat) {
		t.Errorf("expected ErrInvalidLogFormat, got %v", err)
	}
}

func TestNopLogger_DiscardsAndCloses(t *testing.T) {
	l := NewNopLogger()
	l.Error(context.Background(), "dropped")
	l.WithProbe(ProbeMeta{Name: "x"}).Info(context.Background(), "dropped")
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubRunner struct {
	report Report
	err    error
}

func (s stubRunner) Run(ctx context.Context) (Report, error) {
	return s.report, s.err
}

func engineWith(outcomes map[string]Outcome) *Engine {
	reg := NewRegistry(time.Second)
	for name, o := range outcomes {
		reg.MustRegister(NewProbeFunc(name, func(ctx context.Context) Outcome {
			return o
		}))
	}
	return NewEngine(reg, nil)
}

func TestLivenessHandler(t *testing.T) {
	handler := LivenessHandler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "OK" {
		t.Errorf("Body = %v, want 'OK'", rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "text/plain" {
		t.Errorf("Content-Type = %v, want 'text/plain'", rec.Header().Get("Content-Type"))
	}
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name     string
		runner   Runner
		wantCode int
		wantBody string
	}{
		{
			name:     "healthy",
			runner:   engineWith(map[string]Outcome{"db": Healthy(nil)}),
			wantCode: http.StatusOK,
			wantBody: "OK",
		},
		{
			name:     "skipped only",
			runner:   engineWith(map[string]Outcome{"redis": Skipped("not configured")}),
			wantCode: http.StatusOK,
			wantBody: "OK",
		},
		{
			name:     "unhealthy",
			runner:   engineWith(map[string]Outcome{"db": Unhealthy(nil)}),
			wantCode: http.StatusServiceUnavailable,
			wantBody: "UNHEALTHY",
		},
		{
			name:     "engine failure",
			runner:   stubRunner{err: ErrEngineFailure},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "UNHEALTHY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()

			ReadinessHandler(tt.runner)(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantCode)
			}
			if rec.Body.String() != tt.wantBody {
				t.Errorf("Body = %v, want %v", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestDetailedHandler(t *testing.T) {
	runner := engineWith(map[string]Outcome{
		"application": Healthy(nil),
		"db":          Errored(errors.New("driver missing")),
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	DetailedHandler(runner)(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %v, want application/json", ct)
	}

	var doc struct {
		Status  string                    `json:"status"`
		Checks  map[string]map[string]any `json:"checks"`
		Summary map[string][]string       `json:"summary"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if doc.Status != "unhealthy" {
		t.Errorf("status = %v, want unhealthy", doc.Status)
	}
	if doc.Checks["db"]["error"] != "driver missing" {
		t.Errorf("checks.db.error = %v, want 'driver missing'", doc.Checks["db"]["error"])
	}
	if got := doc.Summary["error_checks"]; len(got) != 1 || got[0] != "db" {
		t.Errorf("error_checks = %v, want [db]", got)
	}
}

func TestDetailedHandler_EngineFailure(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	DetailedHandler(stubRunner{err: errors.New("health: engine failure: boom")})(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var doc map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if doc["status"] != "error" {
		t.Errorf("status = %v, want error", doc["status"])
	}
	if !strings.Contains(doc["error"].(string), "boom") {
		t.Errorf("error = %v, want to contain 'boom'", doc["error"])
	}
	if _, ok := doc["timestamp"].(float64); !ok {
		t.Errorf("timestamp = %v, want a number", doc["timestamp"])
	}
}

func TestSingleProbeHandler(t *testing.T) {
	engine := engineWith(map[string]Outcome{
		"db":    Healthy(map[string]any{"kind": "postgres"}),
		"cache": Unhealthy(nil),
	})
	byQuery := func(r *http.Request) string { return r.URL.Query().Get("name") }
	handler := SingleProbeHandler(engine, byQuery)

	tests := []struct {
		name     string
		probe    string
		wantCode int
	}{
		{"healthy", "db", http.StatusOK},
		{"unhealthy", "cache", http.StatusServiceUnavailable},
		{"not found", "nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health/x?name="+tt.probe, nil)
			rec := httptest.NewRecorder()

			handler(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("Status = %d, want %d", rec.Code, tt.wantCode)
			}

			var doc map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
				t.Fatalf("decode error = %v", err)
			}
			if tt.wantCode == http.StatusNotFound {
				if _, ok := doc["error"]; !ok {
					t.Error("not found response should carry an error")
				}
				return
			}
			if doc["name"] != tt.probe {
				t.Errorf("name = %v, want %v", doc["name"], tt.probe)
			}
		})
	}
}

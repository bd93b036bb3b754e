package probes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/jonwraymond/probekit/health"
)

func catalogue(t *testing.T, livenessURL string, deps map[string]Pinger) *health.Engine {
	t.Helper()

	reg := health.NewRegistry(2 * time.Second)
	reg.MustRegister(NewLiveness(LivenessConfig{URL: livenessURL}))
	for name, p := range deps {
		reg.MustRegister(NewDependency(name, p))
	}
	reg.MustRegister(NewResources(ResourceConfig{
		Sampler: fakeSampler{cpu: 10, mem: 20, used: 30, total: 100},
	}), health.WithBlocking())
	reg.MustRegister(NewFilesystem("filesystem", []string{t.TempDir()}, nil), health.WithBlocking())

	return health.NewEngine(reg, health.NewExecutor())
}

func TestScenario_AllHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	engine := catalogue(t, srv.URL+"/health", map[string]Pinger{"redis": nil})
	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != health.StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", report.Status)
	}
	if len(report.Summary.Unhealthy) != 0 {
		t.Errorf("Unhealthy = %v, want []", report.Summary.Unhealthy)
	}
	if len(report.Summary.Errors) != 0 {
		t.Errorf("Errors = %v, want []", report.Summary.Errors)
	}
	if report.Checks["redis"].Status != health.StatusSkipped {
		t.Errorf("redis = %v, want StatusSkipped", report.Checks["redis"].Status)
	}
	if len(report.Checks) != 4 {
		t.Errorf("len(Checks) = %d, want 4", len(report.Checks))
	}
}

func TestScenario_LivenessRefused(t *testing.T) {
	engine := catalogue(t, "http://"+closedAddr(t)+"/health", nil)
	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if report.Status != health.StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", report.Status)
	}
	if !slices.Contains(report.Summary.Unhealthy, "application") {
		t.Errorf("Unhealthy = %v, want to contain application", report.Summary.Unhealthy)
	}
	if msg, _ := report.Checks["application"].Detail("error"); msg == nil || msg == "" {
		t.Error("application should carry an error detail")
	}
	if report.ExitCode() != 1 {
		t.Errorf("ExitCode() = %d, want 1", report.ExitCode())
	}
}

func TestScenario_ConfiguringDependency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	absent := catalogue(t, srv.URL, map[string]Pinger{"db": nil})
	present := catalogue(t, srv.URL, map[string]Pinger{"db": fakePinger{}})

	before, _ := absent.Run(context.Background())
	after, _ := present.Run(context.Background())

	if before.Checks["db"].Status != health.StatusSkipped {
		t.Errorf("before = %v, want StatusSkipped", before.Checks["db"].Status)
	}
	if after.Checks["db"].Status != health.StatusHealthy {
		t.Errorf("after = %v, want StatusHealthy", after.Checks["db"].Status)
	}
}

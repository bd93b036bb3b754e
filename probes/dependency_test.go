package probes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/probekit/health"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Kind() string { return "tcp" }
func (f fakePinger) Address() string { return "tcp://db:5432" }
func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestDependency_Name(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"redis", "redis"},
		{"redis2", "redis2"},
		{"db1", "db1"},
		{"S3", "S3"},
		{"PrimaryDB", "PrimaryDB"},
		{"primary-db", "primary-db"},
		{" search ", "search"},
	}

	for _, tt := range tests {
		if got := NewDependency(tt.in, nil).Name(); got != tt.want {
			t.Errorf("NewDependency(%q).Name() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDependency_Check(t *testing.T) {
	tests := []struct {
		name   string
		pinger Pinger
		want   health.Status
	}{
		{"not configured", nil, health.StatusSkipped},
		{"reachable", fakePinger{}, health.StatusHealthy},
		{"unreachable", fakePinger{err: errors.New("connection refused")}, health.StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewDependency("db", tt.pinger).Check(context.Background())
			if o.Status != tt.want {
				t.Errorf("Status = %v, want %v", o.Status, tt.want)
			}
		})
	}
}

func TestDependency_DetailsOnFailure(t *testing.T) {
	o := NewDependency("db", fakePinger{err: errors.New("connection refused")}).Check(context.Background())

	if v, _ := o.Detail("error"); v != "connection refused" {
		t.Errorf("error = %v, want 'connection refused'", v)
	}
	if v, _ := o.Detail("kind"); v != "tcp" {
		t.Errorf("kind = %v, want tcp", v)
	}
	if v, _ := o.Detail("address"); v != "tcp://db:5432" {
		t.Errorf("address = %v, want tcp://db:5432", v)
	}
}

func TestDependency_ReportedUnderConfiguredName(t *testing.T) {
	reg := health.NewRegistry(time.Second)
	reg.MustRegister(NewDependency("redis2", nil))
	engine := health.NewEngine(reg, nil)

	outcome, err := engine.RunProbe(context.Background(), "redis2")
	if err != nil {
		t.Fatalf("RunProbe(redis2) error = %v", err)
	}
	if outcome.Status != health.StatusSkipped {
		t.Errorf("Status = %v, want StatusSkipped", outcome.Status)
	}

	report, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, ok := report.Checks["redis2"]; !ok {
		t.Errorf("Checks keys = %v, want redis2", engine.Probes())
	}
}

package health

import (
	"errors"
	"testing"
	"time"
)

func TestHealthy_CopiesDetails(t *testing.T) {
	details := map[string]any{"url": "http://localhost:8080/health"}
	o := Healthy(details)
	details["url"] = "changed"

	if o.Status != StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", o.Status)
	}
	if v, _ := o.Detail("url"); v != "http://localhost:8080/health" {
		t.Errorf("Detail(url) = %v, want original value", v)
	}
}

func TestUnhealthy_NilDetails(t *testing.T) {
	o := Unhealthy(nil)
	if o.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", o.Status)
	}
	if o.Details == nil {
		t.Error("Details should not be nil")
	}
}

func TestSkipped(t *testing.T) {
	o := Skipped("not configured")
	if o.Status != StatusSkipped {
		t.Errorf("Status = %v, want StatusSkipped", o.Status)
	}
	if v, _ := o.Detail("reason"); v != "not configured" {
		t.Errorf("Detail(reason) = %v, want 'not configured'", v)
	}
}

func TestErrored(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"with error", errors.New("boom"), "boom"},
		{"nil error", nil, "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Errored(tt.err)
			if o.Status != StatusError {
				t.Errorf("Status = %v, want StatusError", o.Status)
			}
			if v, _ := o.Detail("error"); v != tt.want {
				t.Errorf("Detail(error) = %v, want %v", v, tt.want)
			}
			if o.Err != tt.err {
				t.Errorf("Err = %v, want %v", o.Err, tt.err)
			}
		})
	}
}

func TestOutcome_WithDetailDoesNotMutate(t *testing.T) {
	base := Healthy(map[string]any{"a": 1})
	derived := base.WithDetail("b", 2).WithLatency(time.Second)

	if _, ok := base.Detail("b"); ok {
		t.Error("WithDetail mutated the original outcome")
	}
	if base.Latency != 0 {
		t.Errorf("base.Latency = %v, want 0", base.Latency)
	}
	if v, _ := derived.Detail("b"); v != 2 {
		t.Errorf("derived Detail(b) = %v, want 2", v)
	}
	if derived.Latency != time.Second {
		t.Errorf("derived.Latency = %v, want 1s", derived.Latency)
	}
}

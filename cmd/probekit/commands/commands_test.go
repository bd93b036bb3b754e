package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/probekit/cmd/probekit/internal/clierr"
	"github.com/jonwraymond/probekit/config"
)

// withEnv replaces the process environment for one test.
func withEnv(t *testing.T, env map[string]string) {
	t.Helper()
	prev := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = prev })
}

// quietEnv keeps host sampling fast and independent of the machine load.
func quietEnv() map[string]string {
	return map[string]string{
		"PROBEKIT_CPU_SAMPLE_INTERVAL": "10ms",
		"PROBEKIT_MAX_CPU_PERCENT":     "-1",
		"PROBEKIT_MAX_MEMORY_PERCENT":  "-1",
		"PROBEKIT_METRICS_EXPORTER":    "none",
		"PROBEKIT_LOG_LEVEL":           "error",
	}
}

func execute(t *testing.T, args ...string) (stdout string, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// liveTarget starts a server standing in for the monitored service and
// returns its host and port.
func liveTarget(t *testing.T) (string, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse %s: %v", srv.URL, err)
	}
	return u.Hostname(), u.Port()
}

func closedPort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()
	return addr
}

type reportDoc struct {
	Status  string                    `json:"status"`
	Checks  map[string]map[string]any `json:"checks"`
	Summary struct {
		Unhealthy []string `json:"unhealthy_checks"`
		Errors    []string `json:"error_checks"`
	} `json:"summary"`
}

func decodeReport(t *testing.T, stdout string) reportDoc {
	t.Helper()
	var doc reportDoc
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("decode report %q: %v", stdout, err)
	}
	return doc
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(stdout, "probekit version "+Version) {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestCheck_Healthy(t *testing.T) {
	withEnv(t, quietEnv())
	host, port := liveTarget(t)

	stdout, stderr, err := execute(t, "check",
		"--host", host,
		"--port", port,
		"--critical-path", t.TempDir(),
		"--dependency", "api=tcp://"+net.JoinHostPort(host, port),
	)
	if err != nil {
		t.Fatalf("check error = %v (stderr %s)", err, stderr)
	}

	doc := decodeReport(t, stdout)
	if doc.Status != "healthy" {
		t.Fatalf("status = %s, checks = %v", doc.Status, doc.Checks)
	}
	for _, name := range []string{"application", "resources", "filesystem", "api"} {
		if doc.Checks[name]["status"] != "healthy" {
			t.Errorf("check %s = %v", name, doc.Checks[name])
		}
	}
	if len(doc.Checks) != 4 {
		t.Errorf("checks = %d, want 4", len(doc.Checks))
	}
}

func TestCheck_UnhealthyDependency(t *testing.T) {
	withEnv(t, quietEnv())
	host, port := liveTarget(t)

	stdout, _, err := execute(t, "check",
		"--host", host,
		"--port", port,
		"--dependency", "cache=tcp://"+closedPort(t),
		"--pretty",
	)
	if code := clierr.ExitCodeOf(err); code != clierr.ExitUnhealthy {
		t.Fatalf("exit code = %d, want %d (err %v)", code, clierr.ExitUnhealthy, err)
	}
	if err.Error() != "" {
		t.Errorf("unhealthy exit should be silent, got %q", err.Error())
	}

	doc := decodeReport(t, stdout)
	if doc.Status != "unhealthy" {
		t.Errorf("status = %s, want unhealthy", doc.Status)
	}
	if !slices.Contains(doc.Summary.Unhealthy, "cache") {
		t.Errorf("unhealthy_checks = %v, want cache", doc.Summary.Unhealthy)
	}
	if doc.Checks["filesystem"]["status"] != "skipped" {
		t.Errorf("filesystem = %v, want skipped without paths", doc.Checks["filesystem"])
	}
	if !strings.Contains(stdout, "\n  ") {
		t.Error("--pretty should indent the report")
	}
}

func TestCheck_NonCriticalDependencyDoesNotFail(t *testing.T) {
	host, port := liveTarget(t)
	path := writeConfigFile(t, `
dependencies:
  - name: search
    address: tcp://`+closedPort(t)+`
    critical: false
`)
	env := quietEnv()
	env["PROBEKIT_CONFIG"] = path
	withEnv(t, env)

	stdout, stderr, err := execute(t, "check", "--host", host, "--port", port)
	if err != nil {
		t.Fatalf("check error = %v (stderr %s)", err, stderr)
	}
	doc := decodeReport(t, stdout)
	if doc.Status != "healthy" {
		t.Errorf("status = %s, want healthy", doc.Status)
	}
	if doc.Checks["search"]["status"] != "unhealthy" {
		t.Errorf("search = %v, want unhealthy", doc.Checks["search"])
	}
}

func TestCheck_UnsetDependencyIsSkipped(t *testing.T) {
	host, port := liveTarget(t)
	path := writeConfigFile(t, `
dependencies:
  - name: primary_db
    address: ${DATABASE_URL}
`)
	env := quietEnv()
	env["PROBEKIT_CONFIG"] = path
	withEnv(t, env)

	stdout, stderr, err := execute(t, "check", "--host", host, "--port", port)
	if err != nil {
		t.Fatalf("check error = %v (stderr %s)", err, stderr)
	}
	doc := decodeReport(t, stdout)
	if doc.Checks["primary_db"]["status"] != "skipped" {
		t.Errorf("primary_db = %v, want skipped", doc.Checks["primary_db"])
	}
}

func TestCheck_InvalidConfig(t *testing.T) {
	withEnv(t, quietEnv())

	stdout, _, err := execute(t, "check", "--port", "70000")
	if code := clierr.ExitCodeOf(err); code != clierr.ExitUsage {
		t.Fatalf("exit code = %d, want %d (err %v)", code, clierr.ExitUsage, err)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want nothing for a configuration error", stdout)
	}
}

func TestCheck_UnsupportedDependencyScheme(t *testing.T) {
	withEnv(t, quietEnv())

	_, _, err := execute(t, "check", "--dependency", "queue=amqp://localhost:5672")
	if code := clierr.ExitCodeOf(err); code != clierr.ExitUsage {
		t.Fatalf("exit code = %d, want %d (err %v)", code, clierr.ExitUsage, err)
	}
}

func TestBuildRegistry_Order(t *testing.T) {
	cfg := config.Default()
	cfg.Dependencies = []config.Dependency{
		{Name: "PrimaryDB", Address: ""},
		{Name: "cache", Address: "tcp://localhost:6379"},
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("buildRegistry() error = %v", err)
	}

	want := []string{"application", "resources", "filesystem", "primary_db", "cache"}
	if got := reg.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	resources, _ := reg.Lookup("resources")
	if !resources.Blocking {
		t.Error("resources should run on the blocking pool")
	}
}

func TestBuildAuthenticator(t *testing.T) {
	cfg := config.Default()

	a, err := buildAuthenticator(cfg)
	if err != nil || a != nil {
		t.Fatalf("buildAuthenticator() = %v, %v; want nil, nil", a, err)
	}

	cfg.Server.Auth.APIKeys = []string{"k"}
	a, err = buildAuthenticator(cfg)
	if err != nil || a == nil {
		t.Fatalf("buildAuthenticator() = %v, %v; want an authenticator", a, err)
	}
}

func TestServe_WatchNeedsConfigFile(t *testing.T) {
	withEnv(t, quietEnv())

	_, _, err := execute(t, "serve", "--watch", "--addr", "127.0.0.1:0")
	if code := clierr.ExitCodeOf(err); code != clierr.ExitUsage {
		t.Fatalf("exit code = %d, want %d (err %v)", code, clierr.ExitUsage, err)
	}
}

func TestServe_ServesUntilCanceled(t *testing.T) {
	env := quietEnv()
	env["PROBEKIT_METRICS_EXPORTER"] = "prometheus"
	withEnv(t, env)
	host, port := liveTarget(t)
	addr := closedPort(t)

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"serve", "--addr", addr, "--host", host, "--port", port})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	base := "http://" + addr
	if !eventually(func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}) {
		cancel()
		t.Fatal("server never answered /healthz")
	}

	for path, want := range map[string]int{
		"/readyz":      http.StatusOK,
		"/health":      http.StatusOK,
		"/metrics":     http.StatusOK,
		"/health/nope": http.StatusNotFound,
	} {
		resp, err := http.Get(base + path)
		if err != nil {
			t.Errorf("GET %s: %v", path, err)
			continue
		}
		_ = resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("GET %s = %d, want %d", path, resp.StatusCode, want)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v, want nil", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return false
}

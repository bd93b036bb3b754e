package probes

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/jonwraymond/probekit/health"
)

func TestFilesystem_NoPathsSkips(t *testing.T) {
	o := NewFilesystem("", nil, nil).Check(context.Background())
	if o.Status != health.StatusSkipped {
		t.Errorf("Status = %v, want StatusSkipped", o.Status)
	}
}

func TestFilesystem_RealPaths(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")

	f := NewFilesystem("filesystem", []string{dir, missing}, nil)
	o := f.Check(context.Background())

	if o.Status != health.StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", o.Status)
	}
	issues, _ := o.Detail("issues")
	want := []string{"Path does not exist: " + missing}
	if !slices.Equal(issues.([]string), want) {
		t.Errorf("issues = %v, want %v", issues, want)
	}

	paths, _ := o.Detail("paths")
	got := paths.(map[string]PathAccess)[dir]
	if !got.Exists || !got.Readable || !got.Writable {
		t.Errorf("access(%s) = %+v, want all true", dir, got)
	}
}

func TestFilesystem_AllAccessible(t *testing.T) {
	f := NewFilesystem("filesystem", []string{t.TempDir(), t.TempDir()}, nil)
	o := f.Check(context.Background())

	if o.Status != health.StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", o.Status)
	}
	if issues, _ := o.Detail("issues"); len(issues.([]string)) != 0 {
		t.Errorf("issues = %v, want empty", issues)
	}
}

func TestFilesystem_PermissionIssues(t *testing.T) {
	access := AccessFunc(func(path string) PathAccess {
		switch path {
		case "/data/ro":
			return PathAccess{Exists: true, Readable: true}
		case "/data/locked":
			return PathAccess{Exists: true}
		default:
			return PathAccess{Exists: true, Readable: true, Writable: true}
		}
	})

	f := NewFilesystem("filesystem", []string{"/data/ok", "/data/ro", "/data/locked"}, access)
	o := f.Check(context.Background())

	if o.Status != health.StatusUnhealthy {
		t.Errorf("Status = %v, want StatusUnhealthy", o.Status)
	}
	issues, _ := o.Detail("issues")
	want := []string{
		"Path not writable: /data/ro",
		"Path not readable: /data/locked",
		"Path not writable: /data/locked",
	}
	if !slices.Equal(issues.([]string), want) {
		t.Errorf("issues = %v, want %v", issues, want)
	}
}

func TestFilesystem_CopiesPaths(t *testing.T) {
	paths := []string{t.TempDir()}
	f := NewFilesystem("filesystem", paths, nil)
	paths[0] = "/nonexistent/path"

	if o := f.Check(context.Background()); o.Status != health.StatusHealthy {
		t.Errorf("Status = %v, want StatusHealthy", o.Status)
	}
}

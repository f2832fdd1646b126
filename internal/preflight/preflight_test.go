package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"urlsort/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, ReadWrite)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), ReadOnly)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, ReadOnly)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckPasteHost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if result := CheckPasteHost(context.Background(), srv.URL, time.Second); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckPasteHost_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if result := CheckPasteHost(context.Background(), srv.URL, time.Second); result.Passed {
		t.Fatal("expected failure for 503")
	}
}

func TestCheckPasteHost_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	if result := CheckPasteHost(context.Background(), url, time.Second); result.Passed {
		t.Fatal("expected failure for closed server")
	}
}

func TestRunAllGatesChecks(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = base

	results := RunAll(context.Background(), &cfg, Options{})
	if len(results) != 1 || results[0].Name != "Log directory" || !results[0].Passed {
		t.Fatalf("expected only a passing log dir check, got %+v", results)
	}

	cfg.Paths.VocabDir = filepath.Join(base, "missing")
	cfg.Cache.Enabled = true
	cfg.Cache.Path = filepath.Join(base, "memo.db")
	results = RunAll(context.Background(), &cfg, Options{})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %+v", results)
	}
	if !Failed(results) {
		t.Fatal("expected missing vocab dir to fail")
	}
}

package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"urlsort/internal/config"
	"urlsort/internal/logging"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesDailyFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg, "run-123")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message")

	content := readLog(t, logging.DailyLogFile(cfg.Paths.LogDir, time.Now()))
	if !strings.Contains(content, "debug message") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
		RunID:       "abc",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	component := logging.NewComponentLogger(logger, "batch")
	component.Info("line skipped", logging.Int(logging.FieldOrdinal, 3), logging.String("reason", "no filename"))
	component.Debug("hidden")

	content := readLog(t, logPath)
	if !strings.Contains(content, " INFO batch: line skipped ordinal=3 reason=\"no filename\"") {
		t.Fatalf("unexpected console line %q", content)
	}
	if strings.Contains(content, "hidden") {
		t.Fatalf("debug record should be filtered at info level: %q", content)
	}
	if strings.Contains(content, "run_id") {
		t.Fatalf("console output should omit run_id: %q", content)
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestJSONLoggerIncludesRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "info",
		OutputPaths: []string{logPath},
		RunID:       "run-42",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "rank").Warn("ranked", logging.Int("records", 2))

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["run_id"] != "run-42" {
		t.Fatalf("run_id = %v", payload["run_id"])
	}
	if payload["level"] != "warn" || payload["msg"] != "ranked" || payload["component"] != "rank" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key in %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "cache unavailable", "cache_open_failed")

	content := readLog(t, logPath)
	for _, want := range []string{"event_type=cache_open_failed", "error_hint=", "impact="} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := logging.DailyLogFile(dir, time.Now().AddDate(0, 0, -40))
	recent := logging.DailyLogFile(dir, time.Now().AddDate(0, 0, -1))
	keep := logging.DailyLogFile(dir, time.Now())
	other := filepath.Join(dir, "notes.txt")
	for _, path := range []string{old, recent, keep, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	past := time.Now().AddDate(0, 0, -40)
	for _, path := range []string{old, keep, other} {
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	if removed := logging.CleanupOldLogs(logging.NewNop(), dir, 30, keep); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be removed", old)
	}
	for _, path := range []string{recent, keep, other} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to remain: %v", path, err)
		}
	}
	if removed := logging.CleanupOldLogs(nil, dir, 0, ""); removed != 0 {
		t.Fatalf("retention 0 should disable pruning")
	}
}

func TestTailFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tail.log")
	if err := os.WriteFile(path, []byte("a\nb\nc\nd\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	tests := []struct {
		limit int
		want  string
	}{
		{2, "c d"},
		{10, "a b c d"},
		{0, "a b c d"},
	}
	for _, tt := range tests {
		lines, err := logging.TailFile(path, tt.limit)
		if err != nil {
			t.Fatalf("TailFile(%d): %v", tt.limit, err)
		}
		if got := strings.Join(lines, " "); got != tt.want {
			t.Fatalf("TailFile(%d) = %q, want %q", tt.limit, got, tt.want)
		}
	}

	lines, err := logging.TailFile(filepath.Join(t.TempDir(), "missing.log"), 5)
	if err != nil || len(lines) != 0 {
		t.Fatalf("missing file: lines=%v err=%v", lines, err)
	}
}

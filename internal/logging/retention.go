package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// logFilePattern matches the daily log files written by NewFromConfig.
const logFilePattern = "urlsort-*.log"

// DailyLogFile returns the log file path for day inside dir.
func DailyLogFile(dir string, day time.Time) string {
	return filepath.Join(dir, "urlsort-"+day.Format(time.DateOnly)+".log")
}

// CleanupOldLogs removes daily log files in dir whose modification time is
// older than retentionDays. keep is never removed. A retentionDays value of 0
// disables pruning. It returns the number of files removed.
func CleanupOldLogs(logger *slog.Logger, dir string, retentionDays int, keep string) int {
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	matches, err := filepath.Glob(filepath.Join(dir, logFilePattern))
	if err != nil {
		return 0
	}
	keepAbs, _ := filepath.Abs(keep)

	removed := 0
	for _, path := range matches {
		if abs, err := filepath.Abs(path); err == nil && abs == keepAbs {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check file permissions on the log directory"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned",
				String("path", path),
				String(FieldEventType, "log_pruned"),
			)
		}
	}
	return removed
}

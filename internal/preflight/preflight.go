package preflight

import (
	"context"
	"path/filepath"

	"urlsort/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options selects the optional checks.
type Options struct {
	// CheckPaste sends a HEAD request to the paste host.
	CheckPaste bool
}

// RunAll executes all applicable preflight checks for cfg.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, ReadWrite)}

	if cfg.Paths.VocabDir != "" {
		results = append(results, CheckDirectoryAccess("Vocabulary directory", cfg.Paths.VocabDir, ReadOnly))
	}

	if cfg.Cache.Enabled {
		results = append(results, CheckDirectoryAccess("Cache directory", filepath.Dir(cfg.Cache.Path), ReadWrite))
	}

	if opts.CheckPaste {
		results = append(results, CheckPasteHost(ctx, cfg.Paste.BaseURL, cfg.PasteTimeout()))
	}
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

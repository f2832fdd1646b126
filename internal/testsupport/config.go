package testsupport

import (
	"path/filepath"
	"testing"

	"urlsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The cache is disabled unless WithCache is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.VocabDir = filepath.Join(base, "vocab")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Cache.Enabled = false
	cfgVal.Cache.Path = filepath.Join(base, "cache", "memo.db")
	cfgVal.Paste.BaseURL = "http://127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCache enables the memo cache inside the test directory.
func WithCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = true
	}
}

// WithReleaseGroups adds release groups to the ranking section.
func WithReleaseGroups(groups ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ranking.ReleaseGroups = append(b.cfg.Ranking.ReleaseGroups, groups...)
	}
}

// WithVocabList writes a vocabulary list into the config's vocab directory.
func WithVocabList(name, content string) ConfigOption {
	return func(b *configBuilder) {
		WriteText(b.t, filepath.Join(b.cfg.Paths.VocabDir, name+".list"), content)
	}
}

// WithPasteBaseURL points the paste client at url.
func WithPasteBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paste.BaseURL = url
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.VocabDir)
}

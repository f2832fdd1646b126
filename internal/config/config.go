package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"urlsort/internal/vocab"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths holds filesystem locations.
type Paths struct {
	// VocabDir overrides the built-in word lists. Missing files fall back to
	// the embedded defaults.
	VocabDir string `toml:"vocab_dir"`
	LogDir   string `toml:"log_dir"`
}

// Ranking controls sort order and ranker biases.
type Ranking struct {
	Order          string   `toml:"order"`
	ResolutionBias int      `toml:"resolution_bias"`
	TagBias        int      `toml:"tag_bias"`
	SearchBias     int      `toml:"search_bias"`
	ReleaseGroups  []string `toml:"release_groups"`
}

// Cache configures the on-disk memo store.
type Cache struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ExpiryHours int    `toml:"expiry_hours"`
}

// Paste configures the paste client.
type Paste struct {
	BaseURL        string   `toml:"base_url"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	MaxRetries     int      `toml:"max_retries"`
	Stopwords      []string `toml:"stopwords"`
}

// Logging configures log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for urlsort.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Ranking Ranking `toml:"ranking"`
	Cache   Cache   `toml:"cache"`
	Paste   Paste   `toml:"paste"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the expanded default config location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load resolves, parses, normalizes, and validates the configuration. It
// returns the config, the resolved path, and whether that file exists.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("urlsort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and the cache parent.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Cache.Enabled && c.Cache.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Cache.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// VocabOptions maps the ranking section onto vocabulary load options.
func (c *Config) VocabOptions() vocab.Options {
	return vocab.Options{
		Dir:            c.Paths.VocabDir,
		ResolutionBias: c.Ranking.ResolutionBias,
		TagBias:        c.Ranking.TagBias,
		SearchBias:     c.Ranking.SearchBias,
		ReleaseGroups:  append([]string(nil), c.Ranking.ReleaseGroups...),
	}
}

// CacheExpiry returns the memo entry lifetime. Zero means entries never expire.
func (c *Config) CacheExpiry() time.Duration {
	if c.Cache.ExpiryHours <= 0 {
		return 0
	}
	return time.Duration(c.Cache.ExpiryHours) * time.Hour
}

// PasteTimeout returns the per-request paste timeout.
func (c *Config) PasteTimeout() time.Duration {
	return time.Duration(c.Paste.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "urlsort", "memo.db")
	}
	return "~/.cache/urlsort/memo.db"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRanking()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizePaste()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.VocabDir) == "" {
		if value, ok := os.LookupEnv("URLSORT_VOCAB_DIR"); ok {
			c.Paths.VocabDir = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Paths.VocabDir, err = expandPath(strings.TrimSpace(c.Paths.VocabDir)); err != nil {
		return fmt.Errorf("paths.vocab_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRanking() {
	c.Ranking.Order = strings.ToLower(strings.TrimSpace(c.Ranking.Order))
	if c.Ranking.Order == "" {
		c.Ranking.Order = defaultRankingOrder
	}
	groups := c.Ranking.ReleaseGroups[:0]
	for _, group := range c.Ranking.ReleaseGroups {
		if group = strings.ToUpper(strings.TrimSpace(group)); group != "" {
			groups = append(groups, group)
		}
	}
	c.Ranking.ReleaseGroups = groups
}

func (c *Config) normalizeCache() error {
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	var err error
	if c.Cache.Path, err = expandPath(strings.TrimSpace(c.Cache.Path)); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizePaste() {
	c.Paste.BaseURL = strings.TrimRight(strings.TrimSpace(c.Paste.BaseURL), "/")
	if c.Paste.BaseURL == "" {
		c.Paste.BaseURL = defaultPasteBaseURL
	}
	if c.Paste.TimeoutSeconds <= 0 {
		c.Paste.TimeoutSeconds = defaultPasteTimeoutSeconds
	}
	words := c.Paste.Stopwords[:0]
	for _, word := range c.Paste.Stopwords {
		if word = strings.ToLower(strings.TrimSpace(word)); word != "" {
			words = append(words, word)
		}
	}
	c.Paste.Stopwords = words
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("URLSORT_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

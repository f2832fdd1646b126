package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validatePaste()
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.ExpiryHours < 0 {
		return errors.New("cache.expiry_hours must be >= 0")
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validatePaste() error {
	parsed, err := url.Parse(c.Paste.BaseURL)
	if err != nil {
		return fmt.Errorf("paste.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("paste.base_url must be an http(s) URL, got %q", c.Paste.BaseURL)
	}
	if c.Paste.MaxRetries < 0 {
		return errors.New("paste.max_retries must be >= 0")
	}
	return nil
}

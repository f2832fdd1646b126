package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"urlsort/internal/batch"
	"urlsort/internal/config"
	"urlsort/internal/logging"
	"urlsort/internal/memo"
	"urlsort/internal/paste"
	"urlsort/internal/ranking"
	"urlsort/internal/vocab"
)

type commandContext struct {
	configFlag *string
	verbosity  *int

	runID string
	now   func() time.Time

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	vocabOnce sync.Once
	vocab     *vocab.Vocabulary
	vocabErr  error
}

func newCommandContext(configFlag *string, verbosity *int) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbosity:  verbosity,
		runID:      uuid.NewString(),
		now:        time.Now,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loggerValue builds the run logger once. -v raises the level to info, -vv to
// debug, over a quieter configured level.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		effective := *cfg
		if level := verbosityLevel(c.verbosityValue()); level != "" {
			effective.Logging.Level = level
		}
		logger, err := logging.NewFromConfig(&effective, c.runID)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
		if removed := logging.CleanupOldLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays,
			logging.DailyLogFile(cfg.Paths.LogDir, c.now())); removed > 0 {
			logger.Debug("old logs removed", logging.Int("count", removed))
		}
	})
	return c.logger
}

func (c *commandContext) verbosityValue() int {
	if c.verbosity == nil {
		return 0
	}
	return *c.verbosity
}

func verbosityLevel(v int) string {
	switch {
	case v >= 2:
		return "debug"
	case v == 1:
		return "info"
	default:
		return ""
	}
}

func (c *commandContext) vocabulary() (*vocab.Vocabulary, error) {
	c.vocabOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.vocabErr = err
			return
		}
		c.vocab, c.vocabErr = vocab.Load(cfg.VocabOptions())
		if c.vocabErr == nil {
			c.loggerValue().Debug("vocabulary loaded", logging.String("digest", c.vocab.Digest()))
		}
	})
	return c.vocab, c.vocabErr
}

// withMemo opens the memo store for fn. When the cache is disabled and force
// is false, fn receives nil.
func (c *commandContext) withMemo(force bool, fn func(*memo.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Cache.Enabled && !force {
		return fn(nil)
	}
	store, err := memo.Open(cfg.Cache.Path, c.loggerValue())
	if err != nil {
		return fmt.Errorf("open memo cache: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) tokenizer(store *memo.Store) (*batch.Tokenizer, error) {
	v, err := c.vocabulary()
	if err != nil {
		return nil, err
	}
	opts := []batch.Option{batch.WithLogger(c.loggerValue())}
	if store != nil {
		opts = append(opts, batch.WithMemo(store, c.config.CacheExpiry()))
	}
	return batch.NewTokenizer(v, c.now(), opts...), nil
}

func (c *commandContext) engine() (ranking.Engine, error) {
	v, err := c.vocabulary()
	if err != nil {
		return ranking.Engine{}, err
	}
	return ranking.Engine{SearchTerms: v.SearchTerms, CommonWords: v, Now: c.now()}, nil
}

// policy resolves the --by flag, falling back to the configured order.
func (c *commandContext) policy(flag string) (ranking.Policy, error) {
	name := strings.TrimSpace(flag)
	if name == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return 0, err
		}
		name = cfg.Ranking.Order
	}
	return ranking.ParsePolicy(name)
}

func (c *commandContext) pasteClient(store *memo.Store) (*paste.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	opts := []paste.Option{paste.WithLogger(c.loggerValue()), paste.WithClock(c.now)}
	if store != nil {
		opts = append(opts, paste.WithMemo(store, cfg.CacheExpiry()))
	}
	return paste.NewClient(paste.Config{
		BaseURL:        cfg.Paste.BaseURL,
		TimeoutSeconds: cfg.Paste.TimeoutSeconds,
		MaxRetries:     cfg.Paste.MaxRetries,
	}, opts...)
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

package config

import "urlsort/internal/vocab"

const (
	defaultConfigPath          = "~/.config/urlsort/config.toml"
	defaultLogDir              = "~/.local/share/urlsort/logs"
	defaultLogRetentionDays    = 30
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultRankingOrder        = "combo"
	defaultCacheExpiryHours    = 24 * 7
	defaultPasteBaseURL        = "https://pastebin.com"
	defaultPasteTimeoutSeconds = 30
	defaultPasteMaxRetries     = 3
)

// defaultStopwords mark pastes that are link spam rather than media lists.
var defaultStopwords = []string{
	"127.0.0.1",
	"fileshare.rocks",
	"powerfiler.com",
	"swporn",
	"urlin.us",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Ranking: Ranking{
			Order:          defaultRankingOrder,
			ResolutionBias: vocab.DefaultResolutionBias,
			TagBias:        vocab.DefaultTagBias,
			SearchBias:     vocab.DefaultSearchBias,
		},
		Cache: Cache{
			Enabled:     false,
			Path:        defaultCachePath(),
			ExpiryHours: defaultCacheExpiryHours,
		},
		Paste: Paste{
			BaseURL:        defaultPasteBaseURL,
			TimeoutSeconds: defaultPasteTimeoutSeconds,
			MaxRetries:     defaultPasteMaxRetries,
			Stopwords:      append([]string(nil), defaultStopwords...),
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

package paste

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"urlsort/internal/logging"
	"urlsort/internal/memo"
)

const (
	defaultHTTPTimeout    = 30 * time.Second
	defaultRetryMaxDelay  = 30 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 3
	maxBodyBytes          = 8 << 20
	memoName              = "paste.fetch"
)

// ErrInvalidKey is returned for keys that cannot name a paste.
var ErrInvalidKey = errors.New("invalid paste key")

// Config captures the paste host settings.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
}

// Client fetches raw paste contents.
type Client struct {
	cfg        Config
	base       *url.URL
	httpClient *http.Client
	logger     *slog.Logger

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
	now              func() time.Time

	fetch memo.Func
}

// Paste is one fetched paste.
type Paste struct {
	Key   string
	Lines []string
	// FetchedAt is when the body was downloaded, which for a memoized body
	// is the time of the original request.
	FetchedAt time.Time
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithClock overrides the time source used to stamp fetched pastes.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMemo remembers fetched bodies and fetch failures in store for ttl.
func WithMemo(store *memo.Store, ttl time.Duration) Option {
	return func(c *Client) {
		if store != nil {
			c.fetch = store.Wrap(memoName, ttl, c.fetchRaw)
		}
	}
}

// NewClient constructs a paste client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("paste client: invalid base url %q", cfg.BaseURL)
	}
	attempts := defaultRetryAttempts + 1
	if cfg.MaxRetries >= 0 {
		attempts = cfg.MaxRetries + 1
	}
	client := &Client{
		cfg:              cfg,
		base:             base,
		httpClient:       &http.Client{Timeout: timeout},
		logger:           logging.NewNop(),
		retryMaxAttempts: attempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "paste")
	if client.fetch == nil {
		client.fetch = client.fetchRaw
	}
	return client, nil
}

// Host returns the paste host name used to recognise paste links.
func (c *Client) Host() string {
	return c.base.Hostname()
}

// PageURL returns the human-facing URL of a paste.
func (c *Client) PageURL(key string) string {
	return c.cfg.BaseURL + "/" + key
}

// RawURL returns the raw-content URL of a paste.
func (c *Client) RawURL(key string) string {
	return c.cfg.BaseURL + "/raw/" + key
}

// Fetch returns the lines of the paste named key.
func (c *Client) Fetch(ctx context.Context, key string) ([]string, error) {
	p, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return p.Lines, nil
}

// Get fetches the paste named key along with its fetch time.
func (c *Client) Get(ctx context.Context, key string) (Paste, error) {
	key = strings.TrimSpace(key)
	if err := validateKey(key); err != nil {
		return Paste{}, err
	}
	value, err := c.fetch(ctx, key)
	if err != nil {
		return Paste{}, err
	}
	fetchedAt, body := decodeStamped(value)
	return Paste{Key: key, Lines: splitLines(body), FetchedAt: fetchedAt}, nil
}

// Raw bodies carry their download time as a "<unix millis>\n" prefix.
func encodeStamped(at time.Time, body string) string {
	return strconv.FormatInt(at.UnixMilli(), 10) + "\n" + body
}

func decodeStamped(value string) (time.Time, string) {
	stamp, body, ok := strings.Cut(value, "\n")
	if !ok {
		return time.Time{}, value
	}
	ms, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return time.Time{}, value
	}
	return time.UnixMilli(ms), body
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, "/?#") || strings.TrimSpace(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

type httpStatusError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *httpStatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if len(body) > 120 {
		body = body[:120] + "..."
	}
	return fmt.Sprintf("paste request: http %d: %s", e.StatusCode, body)
}

// StatusCode reports the HTTP status of a failed fetch, or 0.
func StatusCode(err error) int {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

func (c *Client) fetchRaw(ctx context.Context, args ...string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("paste fetch: want 1 argument, got %d", len(args))
	}
	key := args[0]
	attempts := c.retryAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, err := c.fetchOnce(ctx, key)
		if err == nil {
			c.logger.Debug("paste fetched", logging.String("key", key), logging.Int("bytes", len(body)))
			return encodeStamped(c.now(), body), nil
		}
		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			if lastErr == nil {
				return "", err
			}
			return "", fmt.Errorf("paste %s: failed after %d attempts: %w", key, attempt, err)
		}
		c.logger.Info("paste fetch retry",
			logging.String("key", key),
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay),
			logging.Error(err),
		)
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("paste %s: failed after %d attempts: %w", key, attempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, key string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RawURL(key), nil)
	if err != nil {
		return "", fmt.Errorf("paste request: new request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paste request: http error (timeout=%s): %w", c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("paste request: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return "", &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			RetryAfter: retryAfter,
		}
	}
	return string(body), nil
}

func (c *Client) retryAttempts() int {
	if c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			if statusErr.RetryAfter > 0 {
				return c.capDelay(statusErr.RetryAfter), true
			}
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return c.backoffDelay(attempt), true
	}
	return 0, false
}

// backoffDelay doubles from the base delay per attempt: base, base*2, base*4.
func (c *Client) backoffDelay(attempt int) time.Duration {
	base := c.retryBaseDelay
	if base <= 0 {
		return 0
	}
	maxDelay := c.retryMaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	maxDelay := c.retryMaxDelay
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	return min(delay, maxDelay)
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

func splitLines(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return nil
	}
	return strings.Split(body, "\n")
}

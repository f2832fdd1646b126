package memo

import (
	"context"
	"errors"
	"time"

	"urlsort/internal/logging"
)

// Func is a function whose result depends only on its string arguments.
type Func func(ctx context.Context, args ...string) (string, error)

// CachedError replays a remembered failure.
type CachedError struct {
	Key     Key
	Message string
}

func (e *CachedError) Error() string {
	return e.Message
}

// IsCached reports whether err is a replayed failure.
func IsCached(err error) bool {
	var cached *CachedError
	return errors.As(err, &cached)
}

// Wrap returns fn memoized under name. Results and failures are stored with
// the given ttl; a fresh failure is replayed as a *CachedError without
// calling fn. Store errors are logged and never mask fn's result.
func (s *Store) Wrap(name string, ttl time.Duration, fn Func) Func {
	return func(ctx context.Context, args ...string) (string, error) {
		ctx = ensureContext(ctx)
		key := NewKey(name, args...)
		entry, ok, err := s.Get(ctx, key)
		if err != nil {
			s.logger.Warn("memo lookup failed", logging.String("key", key.String()), logging.Error(err))
		} else if ok {
			s.logger.Debug("memo hit", logging.String("key", key.String()), logging.Bool("failed", entry.Failed))
			if entry.Failed {
				return "", &CachedError{Key: key, Message: entry.Value}
			}
			return entry.Value, nil
		}

		value, callErr := fn(ctx, args...)
		if callErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", callErr
			}
			if err := s.PutFailure(ctx, key, callErr, ttl); err != nil {
				s.logger.Warn("memo store failed", logging.String("key", key.String()), logging.Error(err))
			}
			return "", callErr
		}
		if err := s.PutSuccess(ctx, key, value, ttl); err != nil {
			s.logger.Warn("memo store failed", logging.String("key", key.String()), logging.Error(err))
		}
		return value, nil
	}
}

package memo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const argSeparator = "\x00"

// Key identifies a memoized call.
type Key struct {
	Name string
	Args []string
}

// NewKey builds a Key from a function name and its arguments.
func NewKey(name string, args ...string) Key {
	return Key{Name: name, Args: args}
}

func (k Key) encodedArgs() string {
	return strings.Join(k.Args, argSeparator)
}

func (k Key) String() string {
	return fmt.Sprintf("%s(%s)", k.Name, strings.Join(k.Args, ", "))
}

// Entry is one stored result. Failed entries keep the error text in Value.
type Entry struct {
	Key       Key
	Value     string
	Failed    bool
	CreatedAt time.Time
	// ExpiresAt is zero for entries that never expire.
	ExpiresAt time.Time
}

// Expired reports whether the entry is stale at now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Age returns how long ago the entry was stored.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Get returns the fresh entry stored for key. Expired entries report false.
func (s *Store) Get(ctx context.Context, key Key) (Entry, bool, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT name, args, value, failed, created_at, expires_at
		 FROM memo_entries WHERE name = ? AND args = ?`,
		key.Name, key.encodedArgs())
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("memo get %s: %w", key, err)
	}
	if entry.Expired(s.now()) {
		return entry, false, nil
	}
	return entry, true, nil
}

// PutSuccess stores value for key. A ttl of zero or less never expires.
func (s *Store) PutSuccess(ctx context.Context, key Key, value string, ttl time.Duration) error {
	return s.put(ctx, key, value, false, ttl)
}

// PutFailure stores the error text for key so the call is not retried until
// the entry expires.
func (s *Store) PutFailure(ctx context.Context, key Key, cause error, ttl time.Duration) error {
	message := "unknown error"
	if cause != nil {
		message = cause.Error()
	}
	return s.put(ctx, key, message, true, ttl)
}

func (s *Store) put(ctx context.Context, key Key, value string, failed bool, ttl time.Duration) error {
	now := s.now()
	var expires sql.NullInt64
	if ttl > 0 {
		expires = sql.NullInt64{Int64: now.Add(ttl).UnixMilli(), Valid: true}
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO memo_entries (name, args, value, failed, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (name, args) DO UPDATE SET
		   value = excluded.value,
		   failed = excluded.failed,
		   created_at = excluded.created_at,
		   expires_at = excluded.expires_at`,
		key.Name, key.encodedArgs(), value, failed, now.UnixMilli(), expires)
	if err != nil {
		return fmt.Errorf("memo put %s: %w", key, err)
	}
	return nil
}

// List returns every stored entry, expired or not, ordered by name and age.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, args, value, failed, created_at, expires_at
		 FROM memo_entries ORDER BY name, created_at, args`)
	if err != nil {
		return nil, fmt.Errorf("memo list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("memo list: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries, expired or not.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ensureContext(ctx), `SELECT COUNT(1) FROM memo_entries`).Scan(&count); err != nil {
		return 0, fmt.Errorf("memo count: %w", err)
	}
	return count, nil
}

// Prune deletes expired entries and reports how many were removed.
func (s *Store) Prune(ctx context.Context) (int, error) {
	var removed int64
	err := s.exclusive(ctx, func() error {
		res, err := s.execWithRetry(ctx,
			`DELETE FROM memo_entries WHERE expires_at IS NOT NULL AND expires_at <= ?`,
			s.now().UnixMilli())
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("memo prune: %w", err)
	}
	s.logger.Info("memo pruned", "removed", removed)
	return int(removed), nil
}

// Clear deletes every entry and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	var removed int64
	err := s.exclusive(ctx, func() error {
		res, err := s.execWithRetry(ctx, `DELETE FROM memo_entries`)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("memo clear: %w", err)
	}
	s.logger.Info("memo cleared", "removed", removed)
	return int(removed), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry   Entry
		args    string
		created int64
		expires sql.NullInt64
	)
	if err := row.Scan(&entry.Key.Name, &args, &entry.Value, &entry.Failed, &created, &expires); err != nil {
		return Entry{}, err
	}
	if args != "" {
		entry.Key.Args = strings.Split(args, argSeparator)
	}
	entry.CreatedAt = time.UnixMilli(created)
	if expires.Valid {
		entry.ExpiresAt = time.UnixMilli(expires.Int64)
	}
	return entry, nil
}

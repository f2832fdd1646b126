package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"urlsort/internal/logging"
	"urlsort/internal/memo"
	"urlsort/internal/urlrecord"
	"urlsort/internal/vocab"
)

const memoName = "tokenize"

// Tokenizer turns lines into records against one vocabulary.
type Tokenizer struct {
	vocab  *vocab.Vocabulary
	now    time.Time
	logger *slog.Logger
	cached memo.Func
}

// Option customizes a Tokenizer.
type Option func(*Tokenizer)

// WithLogger sets the logger used for skipped lines and cache problems.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tokenizer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMemo stores tokenized records in store. Entries are keyed by the
// vocabulary digest, the reference day, and the line text.
func WithMemo(store *memo.Store, ttl time.Duration) Option {
	return func(t *Tokenizer) {
		if store != nil {
			t.cached = store.Wrap(memoName, ttl, t.tokenizeJSON)
		}
	}
}

// NewTokenizer builds a Tokenizer. now bounds plausible years and dates.
func NewTokenizer(v *vocab.Vocabulary, now time.Time, opts ...Option) *Tokenizer {
	t := &Tokenizer{vocab: v, now: now, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.NewComponentLogger(t.logger, "batch")
	return t
}

// Result holds the records and the lines that were skipped.
type Result struct {
	Records []urlrecord.Record
	Skipped []*urlrecord.ParseError
}

// Tokenize parses and tokenizes every line. Malformed lines are logged with
// their ordinal and returned in Skipped.
func (t *Tokenizer) Tokenize(ctx context.Context, lines []Line) (Result, error) {
	var res Result
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		parsed, err := urlrecord.Parse(line.Text, line.Ordinal)
		if err != nil {
			var perr *urlrecord.ParseError
			if !errors.As(err, &perr) {
				perr = &urlrecord.ParseError{Line: line.Text, Ordinal: line.Ordinal, Err: err}
			}
			t.logger.Warn("skipping line",
				logging.Int(logging.FieldOrdinal, line.Ordinal),
				logging.String(logging.FieldSource, line.Source),
				logging.String(logging.FieldEventType, "line_skipped"),
				logging.Error(perr.Err),
			)
			res.Skipped = append(res.Skipped, perr)
			continue
		}
		record, err := t.tokenize(ctx, parsed)
		if err != nil {
			return res, err
		}
		res.Records = append(res.Records, record)
	}
	t.logger.Debug("batch tokenized",
		logging.Int("records", len(res.Records)),
		logging.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

func (t *Tokenizer) tokenize(ctx context.Context, parsed urlrecord.Parsed) (urlrecord.Record, error) {
	if t.cached == nil {
		return parsed.Tokenize(t.vocab, t.now), nil
	}
	payload, err := t.cached(ctx, t.vocab.Digest(), t.now.Format(time.DateOnly), parsed.Line)
	if err == nil {
		var record urlrecord.Record
		if err = json.Unmarshal([]byte(payload), &record); err == nil {
			record.Ordinal = parsed.Ordinal
			return record, nil
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return urlrecord.Record{}, ctxErr
	}
	t.logger.Warn("memoized tokenize failed; tokenizing directly",
		logging.Int(logging.FieldOrdinal, parsed.Ordinal),
		logging.Error(err),
	)
	return parsed.Tokenize(t.vocab, t.now), nil
}

func (t *Tokenizer) tokenizeJSON(_ context.Context, args ...string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("tokenize: want 3 arguments, got %d", len(args))
	}
	parsed, err := urlrecord.Parse(args[2], 0)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(parsed.Tokenize(t.vocab, t.now))
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return string(data), nil
}

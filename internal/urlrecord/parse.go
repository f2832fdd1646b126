package urlrecord

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"urlsort/internal/textutil"
)

var (
	// ErrMalformedURL marks a line that is not an absolute URL.
	ErrMalformedURL = errors.New("malformed url")
	// ErrNoFilename marks a URL whose path ends without a filename.
	ErrNoFilename = errors.New("url has no filename")
)

// ParseError ties a parse failure to its input line.
type ParseError struct {
	Line    string
	Ordinal int
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Ordinal, e.Err, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parsed is a split URL that has not been tokenized yet.
type Parsed struct {
	Line    string
	Ordinal int
	URL     *url.URL
	// Filename is the decoded last path segment with separators replaced.
	Filename string
	// Filepart is Filename without its extension.
	Filepart string
	// Ext includes the leading dot, or is empty.
	Ext string
}

// Parse splits line into URL components and filename. ordinal is the
// 1-based position of the line in its batch.
func Parse(line string, ordinal int) (Parsed, error) {
	line = strings.TrimSpace(line)
	fail := func(err error) (Parsed, error) {
		return Parsed{}, &ParseError{Line: line, Ordinal: ordinal, Err: err}
	}

	u, err := url.Parse(line)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrMalformedURL, err))
	}
	if u.Scheme == "" || u.Host == "" {
		return fail(ErrMalformedURL)
	}

	escaped := u.EscapedPath()
	segment := escaped[strings.LastIndex(escaped, "/")+1:]
	name, err := url.PathUnescape(segment)
	if err != nil {
		name = segment
	}
	if strings.TrimSpace(name) == "" {
		return fail(ErrNoFilename)
	}

	filepart, ext := name, ""
	if i := strings.LastIndex(name, "."); i >= 0 {
		filepart, ext = name[:i], name[i:]
	}

	return Parsed{
		Line:     line,
		Ordinal:  ordinal,
		URL:      u,
		Filename: textutil.SanitizeSegment(name),
		Filepart: filepart,
		Ext:      ext,
	}, nil
}

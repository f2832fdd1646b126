package paste

import (
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"urlsort/internal/splitter"
)

// Kind is the outcome of classifying a paste.
type Kind int

const (
	// KindIgnore marks a paste with links but nothing worth keeping.
	KindIgnore Kind = iota
	// KindReject marks spam or link-free pastes.
	KindReject
	KindPlaylist
	KindOnion
	KindURLList
)

var kindNames = []string{"ignore", "reject", "m3u", "onion links", "url list"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Keep reports whether the paste holds useful content.
func (k Kind) Keep() bool {
	return k == KindPlaylist || k == KindOnion || k == KindURLList
}

// Verdict describes why a paste was classified as it was.
type Verdict struct {
	Kind Kind
	// Line is the 1-based line that decided the verdict, or 0.
	Line int
	// Links counts link-bearing lines read before the decision.
	Links int
	// Match is the marker or stopword that decided the verdict.
	Match string
}

const (
	copyPasteMarker = "Copy & Paste link"
	onionMarker     = ".onion"
)

var playlistMarkers = []string{"EXTM3U", "EXTINF"}

// DefaultListMarkers are hosts whose links mark a paste as a URL list.
var DefaultListMarkers = []string{"openload"}

// Classifier sorts paste contents.
type Classifier struct {
	mu          sync.Mutex
	stopwords   []string
	stops       *ahocorasick.Matcher
	listMarkers []string
	lists       *ahocorasick.Matcher
}

// NewClassifier builds a classifier. Stopwords and list markers are matched
// case-insensitively anywhere in a line.
func NewClassifier(stopwords, listMarkers []string) *Classifier {
	c := &Classifier{
		stopwords:   normalizeWords(stopwords),
		listMarkers: normalizeWords(listMarkers),
	}
	if len(c.stopwords) > 0 {
		c.stops = ahocorasick.NewStringMatcher(c.stopwords)
	}
	if len(c.listMarkers) > 0 {
		c.lists = ahocorasick.NewStringMatcher(c.listMarkers)
	}
	return c
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" && !slices.Contains(out, w) {
			out = append(out, w)
		}
	}
	return out
}

// Classify reads lines in order and stops at the first deciding line:
// playlist markers, the copy-and-paste spam banner, onion links, URL list
// links, or stopwords. A paste without any link is rejected.
func (c *Classifier) Classify(lines []string) Verdict {
	links := 0
	for i, line := range lines {
		n := i + 1
		for _, marker := range playlistMarkers {
			if strings.Contains(line, marker) {
				return Verdict{Kind: KindPlaylist, Line: n, Links: links, Match: marker}
			}
		}
		if strings.Contains(line, copyPasteMarker) {
			return Verdict{Kind: KindReject, Line: n, Links: links, Match: copyPasteMarker}
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "//") || strings.Contains(lower, "http") {
			links++
			if strings.Contains(lower, onionMarker) {
				return Verdict{Kind: KindOnion, Line: n, Links: links, Match: onionMarker}
			}
			if marker, ok := c.firstMatch(c.lists, c.listMarkers, lower); ok {
				return Verdict{Kind: KindURLList, Line: n, Links: links, Match: marker}
			}
			if ext, ok := mediaExt(line); ok {
				return Verdict{Kind: KindURLList, Line: n, Links: links, Match: ext}
			}
		}
		if word, ok := c.firstMatch(c.stops, c.stopwords, lower); ok {
			return Verdict{Kind: KindReject, Line: n, Links: links, Match: word}
		}
	}
	if links < 1 {
		return Verdict{Kind: KindReject}
	}
	return Verdict{Kind: KindIgnore, Links: links}
}

func (c *Classifier) firstMatch(m *ahocorasick.Matcher, words []string, text string) (string, bool) {
	if m == nil {
		return "", false
	}
	// Matcher keeps per-call state.
	c.mu.Lock()
	hits := m.Match([]byte(text))
	c.mu.Unlock()
	if len(hits) == 0 {
		return "", false
	}
	return words[slices.Min(hits)], true
}

// mediaExt reports the container extension of a link line pointing at a
// media file.
func mediaExt(line string) (string, bool) {
	fields := strings.Fields(line)
	for _, field := range fields {
		if !strings.Contains(field, "//") {
			continue
		}
		if i := strings.IndexAny(field, "?#"); i >= 0 {
			field = field[:i]
		}
		ext := strings.TrimPrefix(path.Ext(field), ".")
		if ext != "" && splitter.IsFormat(ext) {
			return strings.ToLower(ext), true
		}
	}
	return "", false
}

// Contents holds the kept pastes of a run, grouped by kind.
type Contents struct {
	Playlists []Paste
	Onion     []Paste
	URLLists  []Paste
}

// Add records p under kind. Onion pastes keep only non-blank lines.
func (c *Contents) Add(kind Kind, p Paste) {
	switch kind {
	case KindPlaylist:
		c.Playlists = append(c.Playlists, p)
	case KindOnion:
		var kept []string
		for _, line := range p.Lines {
			if strings.TrimSpace(line) != "" {
				kept = append(kept, line)
			}
		}
		p.Lines = kept
		c.Onion = append(c.Onion, p)
	case KindURLList:
		c.URLLists = append(c.URLLists, p)
	}
}

// FreshPlaylists returns playlists fetched less than maxAge before now,
// newest first. maxAge <= 0 keeps every playlist.
func (c *Contents) FreshPlaylists(now time.Time, maxAge time.Duration) []Paste {
	fresh := make([]Paste, 0, len(c.Playlists))
	for _, p := range c.Playlists {
		if maxAge <= 0 || now.Sub(p.FetchedAt) < maxAge {
			fresh = append(fresh, p)
		}
	}
	slices.SortStableFunc(fresh, func(a, b Paste) int {
		return b.FetchedAt.Compare(a.FetchedAt)
	})
	return fresh
}

// Len counts kept pastes.
func (c *Contents) Len() int {
	return len(c.Playlists) + len(c.Onion) + len(c.URLLists)
}

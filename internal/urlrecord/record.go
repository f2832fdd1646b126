package urlrecord

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"urlsort/internal/datetag"
	"urlsort/internal/splitter"
	"urlsort/internal/textutil"
	"urlsort/internal/vocab"
	"urlsort/internal/wordrank"
)

// adultMarker is dropped from title words and flagged instead.
const adultMarker = "XXX"

var wordPattern = regexp.MustCompile(`[^a-zA-Z0-9,!?]+`)

// Record is a tokenized URL.
type Record struct {
	Line     string `json:"line"`
	Ordinal  int    `json:"ordinal"`
	URL      string `json:"url"`
	Host     string `json:"host"`
	Filename string `json:"filename"`
	Ext      string `json:"ext,omitempty"`
	Title    string `json:"title"`

	Date          time.Time         `json:"date"`
	DatePrecision datetag.Precision `json:"date_precision"`

	Resolutions  []string `json:"resolutions,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Formats      []string `json:"formats,omitempty"`
	ReleaseGroup string   `json:"release_group,omitempty"`
	Adult        bool     `json:"adult,omitempty"`

	ResolutionScore float64 `json:"resolution_score"`
	TagScore        float64 `json:"tag_score"`

	// Words are the title words left after every extraction.
	Words []string       `json:"words"`
	Stage splitter.Stage `json:"split_stage"`
}

// HasDate reports whether a date or year was extracted.
func (r Record) HasDate() bool {
	return r.DatePrecision != datetag.PrecisionNone
}

// Year returns the extracted year, or 0.
func (r Record) Year() int {
	if !r.HasDate() {
		return 0
	}
	return r.Date.Year()
}

// Tokenize splits the filename and scores it against v. now bounds the
// accepted dates and years.
func (p Parsed) Tokenize(v *vocab.Vocabulary, now time.Time) Record {
	rec := Record{
		Line:     p.Line,
		Ordinal:  p.Ordinal,
		Filename: p.Filename,
		Ext:      p.Ext,
		Title:    p.Filepart,
	}
	rec.URL = p.Line
	if p.URL != nil {
		rec.Host = p.URL.Hostname()
	}

	groups, stage := splitter.Split(p.Filepart)
	rec.Stage = stage
	tag, groups := datetag.Extract(groups, now)
	rec.Date, rec.DatePrecision = tag.Time, tag.Precision

	var (
		words              []string
		resScored          bool
		resScore, tagScore float64
	)
	for _, group := range groups {
		if splitter.IsFormat(group) {
			rec.Formats = append(rec.Formats, group)
			continue
		}

		tokens := splitWords(group)
		kept := tokens[:0]
		for _, w := range tokens {
			if strings.EqualFold(w, adultMarker) {
				rec.Adult = true
				continue
			}
			kept = append(kept, w)
		}

		res := v.Resolutions.ReplaceTerms(kept, wordrank.Max)
		if res.Scored {
			if !resScored || res.Score > resScore {
				resScore = res.Score
			}
			resScored = true
		}
		rec.Resolutions = append(rec.Resolutions, res.Terms()...)

		tags := v.Tags.ReplaceTerms(res.Leftover, wordrank.Sum)
		if tags.Scored {
			tagScore += tags.Score
		}
		rec.Tags = append(rec.Tags, tags.Terms()...)

		words = append(words, tags.Leftover...)
	}
	rec.ResolutionScore = resScore
	rec.TagScore = tagScore

	if n := len(words); n > 0 && v.IsReleaseGroup(words[n-1]) {
		rec.ReleaseGroup = words[n-1]
		words = words[:n-1]
	}
	rec.Words = words

	if len(words) > 0 && rec.Title == p.Filepart {
		rec.Title = titleFromWords(words)
	}
	return rec
}

func splitWords(group string) []string {
	parts := wordPattern.Split(group, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func titleFromWords(words []string) string {
	joined := strings.Join(words, " ")
	if joined == strings.ToUpper(joined) || joined == strings.ToLower(joined) {
		return strings.Join(textutil.TitleWords(words), " ")
	}
	return joined
}

// Render formats the record as an m3u comment block: the title with its
// year, the shell-quoted tag path, then the URL.
func (r Record) Render() string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(r.Title)
	if r.HasDate() {
		fmt.Fprintf(&b, " (%d)", r.Year())
	}
	b.WriteString("\n# ")
	parts := append(append([]string(nil), r.Tags...), r.Filename)
	b.WriteString(textutil.ShellQuote(strings.Join(parts, "/")))
	b.WriteString("\n")
	b.WriteString(r.URL)
	return b.String()
}

// RenderAll joins rendered records with blank lines.
func RenderAll(records []Record) string {
	blocks := make([]string, len(records))
	for i, r := range records {
		blocks[i] = r.Render()
	}
	return strings.Join(blocks, "\n\n")
}

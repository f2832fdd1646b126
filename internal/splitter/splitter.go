package splitter

import (
	"regexp"
	"strings"

	"urlsort/internal/textutil"
)

// Stage records how far a split refined its input.
type Stage int

const (
	// StageNormalize means folding produced nothing; the input is returned whole.
	StageNormalize Stage = iota
	// StageWrapped means no known shape was found; the input is returned whole.
	StageWrapped
	// StageFallback means wrapping yielded at most one fragment and the text
	// was re-split on non-word characters.
	StageFallback
	// StageGroups means the wrapped fragments were returned directly.
	StageGroups
)

func (s Stage) String() string {
	switch s {
	case StageNormalize:
		return "normalize"
	case StageWrapped:
		return "wrapped"
	case StageFallback:
		return "fallback"
	case StageGroups:
		return "groups"
	default:
		return "unknown"
	}
}

// delim never survives into returned fragments.
const delim = "\x00"

// trimSet is stripped from both ends of every fragment.
const trimSet = "._ -"

type wrapRule struct {
	pattern *regexp.Regexp
	// replacement re-emits the match with delimiters around the wrapped part.
	replacement string
}

var (
	spanRules = []wrapRule{
		{regexp.MustCompile(`\[([^\]]+)\]`), delim + "${1}" + delim},
		{regexp.MustCompile(`\(([^)]+)\)`), delim + "${1}" + delim},
		{regexp.MustCompile("`([^']+)'"), delim + "${1}" + delim},
	}

	separatorRunPattern = regexp.MustCompile(`[^a-zA-Z0-9,!?]{2,}`)
	containerRule       = wrapRule{regexp.MustCompile(`(?i)(\.(?:avi|mkv|mp[34]|wmv))(\.|$)`), delim + "${1}" + delim + "${2}"}

	lowercaseRunPattern = regexp.MustCompile(`[a-z]{2,}`)
	capitalsRule        = wrapRule{regexp.MustCompile(`([A-Z][A-Z.]{2,})([^a-zA-Z0-9]|$)`), delim + "${1}" + delim + "${2}"}

	mediaRules = []wrapRule{
		// formats
		{FormatPattern, delim + "${1}" + delim},
		// audio codecs: AAC, AAC2.0, DD5.1, DD_5_1, DDP5.1
		{regexp.MustCompile(`((?:AAC|DDP?_?\d)(?:[._]?\d(?:[._]\d)?)?)`), delim + "${1}" + delim},
		// Ultra-HD, Full-HD
		{regexp.MustCompile(`([A-Z][a-zA-Z]+-HD)`), delim + "${1}" + delim},
		// HD-TS, HD-CAM
		{regexp.MustCompile(`(HD-[A-Z]+)`), delim + "${1}" + delim},
		// 1080p, 720 p, 2160_P
		{regexp.MustCompile(`([1-9]\d{2,}[ _]?[pP])([^a-zA-Z0-9]|$)`), delim + "${1}" + delim + "${2}"},
	}

	// longNonLetterRule catches dates and other digit blobs.
	longNonLetterRule = wrapRule{regexp.MustCompile(`([^a-zA-Z\x00]{6,})`), delim + "${1}" + delim}

	fallbackSplitPattern = regexp.MustCompile(`[^a-zA-Z0-9'’]+`)
)

// FormatPattern matches container and video codec abbreviations that the
// splitter isolates as their own word-group.
var FormatPattern = regexp.MustCompile(`(?i)(mp[34]|[hx]26[45]|hevc)`)

var formatToken = regexp.MustCompile(`(?i)^(?:mp[34]|[hx]26[45]|hevc|avi|mkv|wmv)$`)

// IsFormat reports whether a whole word-group is a container or codec name.
func IsFormat(group string) bool {
	return formatToken.MatchString(group)
}

// Split decomposes filename into word-groups. The result is never empty.
func Split(filename string) ([]string, Stage) {
	folded := textutil.Fold(filename)
	if folded == "" {
		return []string{filename}, StageNormalize
	}

	wrapped := wrap(folded)
	if !strings.Contains(wrapped, delim) {
		return []string{filename}, StageWrapped
	}

	groups := cleanup(wrapped)
	if len(groups) <= 1 {
		words := splitWords(wrapped)
		if len(words) == 0 {
			return []string{filename}, StageFallback
		}
		return words, StageFallback
	}
	return groups, StageGroups
}

func wrap(text string) string {
	st := text
	for _, rule := range spanRules {
		st = rule.apply(st)
	}
	st = separatorRunPattern.ReplaceAllString(st, delim)
	st = containerRule.apply(st)
	// Capitals are only meaningful next to lowercase text; an all-caps
	// filename is a title, not a release tag.
	if lowercaseRunPattern.MatchString(st) {
		st = capitalsRule.apply(st)
	}
	for _, rule := range mediaRules {
		st = rule.apply(st)
	}
	return longNonLetterRule.apply(st)
}

func (r wrapRule) apply(text string) string {
	return r.pattern.ReplaceAllString(text, r.replacement)
}

func cleanup(wrapped string) []string {
	parts := strings.Split(wrapped, delim)
	groups := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(part, trimSet)
		if part == "" {
			continue
		}
		groups = append(groups, part)
	}
	return groups
}

func splitWords(text string) []string {
	raw := fallbackSplitPattern.Split(text, -1)
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

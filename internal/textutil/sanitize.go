package textutil

import (
	"strings"

	"github.com/alessio/shellescape"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// segmentReplacer replaces path separators so a decoded filename stays a
// single path segment.
var segmentReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
)

// SanitizeSegment replaces path separators in a filename with dashes.
// Leading and trailing whitespace is preserved; only separators change.
func SanitizeSegment(name string) string {
	if name == "" {
		return ""
	}
	return segmentReplacer.Replace(name)
}

// ShellQuote returns value quoted for a POSIX shell. Safe values are
// returned unchanged.
func ShellQuote(value string) string {
	return shellescape.Quote(value)
}

// TitleWords capitalizes the first letter of each word and lowercases the rest.
func TitleWords(words []string) []string {
	caser := cases.Title(language.Und)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = caser.String(w)
	}
	return out
}

// IsNumeric reports whether s is non-empty and made only of ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

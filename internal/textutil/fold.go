package textutil

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold decomposes text (NFD) and drops non-spacing marks, so "Amélie" becomes
// "Amelie". Characters without a decomposition are kept as-is.
func Fold(text string) string {
	if text == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return folded
}

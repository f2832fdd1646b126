package datetag

import (
	"time"
)

// Precision reports how much of a Tag's time is meaningful.
type Precision int

const (
	PrecisionNone Precision = iota
	PrecisionYear
	PrecisionDay
)

func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionDay:
		return "day"
	default:
		return "none"
	}
}

// Tag is an extracted date. Year-only tags are set to January 1.
type Tag struct {
	Time      time.Time
	Precision Precision
}

// Valid reports whether the tag holds a date.
func (t Tag) Valid() bool {
	return t.Precision != PrecisionNone
}

// Date looks for a single distinct group that parses as a calendar date.
// Candidates are groups of at least six characters that do not start with a
// letter; leading non-digit noise is skipped before parsing. Repeats of the
// same group count once, and only the first occurrence is removed.
func Date(groups []string, now time.Time) (date time.Time, rest []string, ok bool) {
	index := -1
	for i, g := range groups {
		d, valid := dateToken(g, now)
		if !valid {
			continue
		}
		if index >= 0 && g != groups[index] {
			return time.Time{}, clone(groups), false
		}
		if index < 0 {
			index = i
			date = d
		}
	}
	if index < 0 {
		return time.Time{}, clone(groups), false
	}
	return date, without(groups, index), true
}

func dateToken(token string, now time.Time) (time.Time, bool) {
	if len(token) < 6 || startsWithLetter(token) {
		return time.Time{}, false
	}
	i := 0
	for i < len(token) && (token[i] < '0' || token[i] > '9') {
		i++
	}
	if i == len(token) {
		return time.Time{}, false
	}
	return ParseDate(token[i:], now)
}

func startsWithLetter(s string) bool {
	c := s[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Extract runs the date pass and, when it finds nothing, the year pass.
func Extract(groups []string, now time.Time) (Tag, []string) {
	if d, rest, ok := Date(groups, now); ok {
		return Tag{Time: d, Precision: PrecisionDay}, rest
	}
	if y, rest, ok := Year(groups, now); ok {
		return Tag{Time: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), Precision: PrecisionYear}, rest
	}
	return Tag{}, clone(groups)
}

package datetag

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	earliest       = time.Date(1921, time.January, 1, 0, 0, 0, 0, time.UTC)
	fieldSeparator = regexp.MustCompile(`[./\- ]+`)
)

// ParseDate interprets token as a calendar date. A bare 6-digit token is
// first read day-first (DDMMYY); afterwards the token is tried year-first and
// then day-first, with underscores read as dots. Only dates between
// 1921-01-01 and two days after now are accepted.
func ParseDate(token string, now time.Time) (time.Time, bool) {
	latest := midnight(now).AddDate(0, 0, 2)
	accept := func(d time.Time, ok bool) bool {
		return ok && !d.Before(earliest) && !d.After(latest)
	}

	if len(token) == 6 && allDigits(token) {
		if d, ok := interpret(token, now, false, true); accept(d, ok) {
			return d, true
		}
	}
	t := strings.ReplaceAll(token, "_", ".")
	if d, ok := interpret(t, now, true, false); accept(d, ok) {
		return d, true
	}
	if d, ok := interpret(t, now, false, true); accept(d, ok) {
		return d, true
	}
	return time.Time{}, false
}

// field is one numeric component; wide fields (more than two digits) can
// only be a year.
type field struct {
	value int
	wide  bool
}

func interpret(token string, now time.Time, yearFirst, dayFirst bool) (time.Time, bool) {
	fields, ok := splitFields(token)
	if !ok {
		return time.Time{}, false
	}
	y, m, d, ok := resolve(fields, yearFirst, dayFirst)
	if !ok {
		return time.Time{}, false
	}
	if !y.wide {
		y.value = expandYear(y.value, now.Year())
	}
	return buildDate(y.value, m, d)
}

func splitFields(token string) ([]field, bool) {
	token = strings.Trim(token, "./- ")
	if token == "" {
		return nil, false
	}
	if allDigits(token) {
		switch len(token) {
		case 6:
			return []field{num(token[:2]), num(token[2:4]), num(token[4:])}, true
		case 8:
			return []field{num(token[:4]), num(token[4:6]), num(token[6:])}, true
		default:
			return nil, false
		}
	}
	parts := fieldSeparator.Split(token, -1)
	if len(parts) != 3 {
		return nil, false
	}
	fields := make([]field, 0, 3)
	for _, p := range parts {
		if !allDigits(p) || len(p) > 4 {
			return nil, false
		}
		fields = append(fields, num(p))
	}
	return fields, true
}

func num(s string) field {
	v, _ := strconv.Atoi(s)
	return field{value: v, wide: len(s) > 2}
}

// resolve assigns year, month and day to three numeric fields.
func resolve(f []field, yearFirst, dayFirst bool) (year field, month, day int, ok bool) {
	yearIndex := -1
	for i, x := range f {
		if x.wide {
			if yearIndex >= 0 {
				return field{}, 0, 0, false
			}
			yearIndex = i
		}
	}
	a, b, c := f[0], f[1], f[2]
	switch {
	case a.value > 31 || yearIndex == 0 || (yearFirst && b.value <= 12 && c.value <= 31):
		if yearIndex > 0 {
			return field{}, 0, 0, false
		}
		if dayFirst && c.value <= 12 {
			return a, c.value, b.value, true
		}
		return a, b.value, c.value, true
	case yearIndex == 1:
		return field{}, 0, 0, false
	case a.value > 12 || (dayFirst && b.value <= 12):
		return c, b.value, a.value, true
	default:
		return c, a.value, b.value, true
	}
}

// expandYear maps a 2-digit year into the century window centred on current.
func expandYear(y, current int) int {
	y += current / 100 * 100
	switch {
	case y >= current+50:
		y -= 100
	case y < current-50:
		y += 100
	}
	return y
}

func buildDate(y, m, d int) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

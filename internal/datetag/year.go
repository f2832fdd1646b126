package datetag

import (
	"strconv"
	"time"
)

// minYear is the exclusive lower bound for a standalone year token.
const minYear = 1920

// Year returns the only 4-digit token whose value lies in (1920, now.Year()]
// together with the groups minus that token. With zero or several candidates
// ok is false and rest is a copy of groups.
func Year(groups []string, now time.Time) (year int, rest []string, ok bool) {
	index := -1
	candidates := 0
	for i, g := range groups {
		y, valid := yearToken(g, now.Year())
		if !valid {
			continue
		}
		candidates++
		if index < 0 {
			index = i
			year = y
		}
	}
	if candidates != 1 {
		return 0, clone(groups), false
	}
	return year, without(groups, index), true
}

func yearToken(token string, current int) (int, bool) {
	if len(token) != 4 || !allDigits(token) {
		return 0, false
	}
	y, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	if y <= minYear || y > current {
		return 0, false
	}
	return y, true
}

func allDigits(s string) bool {
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

func clone(groups []string) []string {
	out := make([]string, len(groups))
	copy(out, groups)
	return out
}

func without(groups []string, index int) []string {
	out := make([]string, 0, len(groups)-1)
	out = append(out, groups[:index]...)
	return append(out, groups[index+1:]...)
}

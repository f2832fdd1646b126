// Package datetag pulls a single calendar date or release year out of a
// filename's word-groups.
//
// Extraction only happens when exactly one candidate exists. Zero or several
// candidates are treated as ambiguous and the groups are returned untouched,
// so a resolution or track number never turns into a bogus year.
//
// Every function returns a fresh slice; inputs are never modified.
package datetag

package testsupport

import (
	"testing"

	"urlsort/internal/vocab"
)

// SampleURLs are two releases of the same title that differ in year and
// resolution.
var SampleURLs = []string{
	"https://host/path/Movie.Title.2014.1080p.x264-GROUP.mkv",
	"https://host/path/Movie.Title.2016.720p.x264-GROUP.mkv",
}

// MustVocabulary loads the built-in vocabulary with extra release groups.
func MustVocabulary(t testing.TB, releaseGroups ...string) *vocab.Vocabulary {
	t.Helper()

	opts := vocab.DefaultOptions()
	opts.ReleaseGroups = releaseGroups
	v, err := vocab.Load(opts)
	if err != nil {
		t.Fatalf("load vocabulary: %v", err)
	}
	return v
}

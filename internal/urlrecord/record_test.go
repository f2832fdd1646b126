package urlrecord

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"urlsort/internal/datetag"
	"urlsort/internal/testsupport"
)

var fixedNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func TestParse(t *testing.T) {
	p, err := Parse("  https://example.com/a/b%2Fc%20d.part.mkv?x=1  ", 7)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Line != "https://example.com/a/b%2Fc%20d.part.mkv?x=1" {
		t.Errorf("Line = %q", p.Line)
	}
	if p.Ordinal != 7 {
		t.Errorf("Ordinal = %d", p.Ordinal)
	}
	if p.Filename != "b-c d.part.mkv" {
		t.Errorf("Filename = %q", p.Filename)
	}
	if p.Filepart != "b/c d.part" || p.Ext != ".mkv" {
		t.Errorf("Filepart/Ext = %q/%q", p.Filepart, p.Ext)
	}

	p, err = Parse("http://example.com/clip", 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Filepart != "clip" || p.Ext != "" {
		t.Errorf("Filepart/Ext = %q/%q", p.Filepart, p.Ext)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"not a url", ErrMalformedURL},
		{"/relative/path.mkv", ErrMalformedURL},
		{"http://[::1", ErrMalformedURL},
		{"https://example.com/dir/", ErrNoFilename},
		{"https://example.com", ErrNoFilename},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line, 3)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) err = %v, want %v", tt.line, err, tt.want)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Ordinal != 3 || perr.Line != tt.line {
				t.Fatalf("ParseError = %+v", perr)
			}
		})
	}
}

func tokenize(t *testing.T, line string, groups ...string) Record {
	t.Helper()
	p, err := Parse(line, 1)
	if err != nil {
		t.Fatalf("Parse(%q): %v", line, err)
	}
	return p.Tokenize(testsupport.MustVocabulary(t, groups...), fixedNow)
}

func TestTokenizeSampleReleases(t *testing.T) {
	first := tokenize(t, testsupport.SampleURLs[0], "GROUP")
	second := tokenize(t, testsupport.SampleURLs[1], "GROUP")

	for _, tc := range []struct {
		rec  Record
		year int
		res  string
	}{
		{first, 2014, "1080p"},
		{second, 2016, "720p"},
	} {
		if tc.rec.Year() != tc.year || tc.rec.DatePrecision != datetag.PrecisionYear {
			t.Errorf("%s: year = %d (%v), want %d", tc.rec.Filename, tc.rec.Year(), tc.rec.DatePrecision, tc.year)
		}
		if !reflect.DeepEqual(tc.rec.Formats, []string{"x264"}) {
			t.Errorf("%s: formats = %q", tc.rec.Filename, tc.rec.Formats)
		}
		if tc.rec.ReleaseGroup != "GROUP" {
			t.Errorf("%s: release group = %q", tc.rec.Filename, tc.rec.ReleaseGroup)
		}
		if !reflect.DeepEqual(tc.rec.Resolutions, []string{tc.res}) {
			t.Errorf("%s: resolutions = %q", tc.rec.Filename, tc.rec.Resolutions)
		}
		if !reflect.DeepEqual(tc.rec.Words, []string{"Movie", "Title"}) {
			t.Errorf("%s: words = %q", tc.rec.Filename, tc.rec.Words)
		}
		if tc.rec.Title != "Movie Title" {
			t.Errorf("%s: title = %q", tc.rec.Filename, tc.rec.Title)
		}
	}
	if first.ResolutionScore <= second.ResolutionScore {
		t.Fatalf("1080p score %v should exceed 720p score %v", first.ResolutionScore, second.ResolutionScore)
	}
	if first.TagScore != second.TagScore {
		t.Fatalf("tag scores differ: %v vs %v", first.TagScore, second.TagScore)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantTitle string
		wantWords []string
		wantTags  []string
		wantGroup string
		wantAdult bool
		wantYear  int
	}{
		{
			name:      "diacritics and builtin release group",
			line:      "https://example.com/Am%C3%A9lie.2001.720p.BluRay.x264-AMIABLE.mkv",
			wantTitle: "Amelie",
			wantWords: []string{"Amelie"},
			wantTags:  []string{"BluRay"},
			wantGroup: "AMIABLE",
			wantYear:  2001,
		},
		{
			name:      "adult marker dropped",
			line:      "https://example.com/Concert.WEB-DL.Live.XXX.720p.mp4",
			wantTitle: "Concert WEB DL Live",
			wantWords: []string{"Concert", "WEB", "DL", "Live"},
			wantAdult: true,
		},
		{
			name:      "all caps title is capitalized",
			line:      "https://example.com/HOLIDAY%20BEACH%201999.avi",
			wantTitle: "Holiday Beach 1999",
			wantWords: []string{"HOLIDAY", "BEACH", "1999"},
		},
		{
			name:      "lowercase title is capitalized",
			line:      "https://example.com/cannes%20film%20festival%202019%20HDTV.mkv",
			wantTitle: "Cannes Film Festival",
			wantWords: []string{"cannes", "film", "festival"},
			wantTags:  []string{"HDTV"},
			wantYear:  2019,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := tokenize(t, tt.line)
			if rec.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", rec.Title, tt.wantTitle)
			}
			if !reflect.DeepEqual(rec.Words, tt.wantWords) {
				t.Errorf("Words = %q, want %q", rec.Words, tt.wantWords)
			}
			if !reflect.DeepEqual(rec.Tags, tt.wantTags) {
				t.Errorf("Tags = %q, want %q", rec.Tags, tt.wantTags)
			}
			if rec.ReleaseGroup != tt.wantGroup {
				t.Errorf("ReleaseGroup = %q, want %q", rec.ReleaseGroup, tt.wantGroup)
			}
			if rec.Adult != tt.wantAdult {
				t.Errorf("Adult = %v, want %v", rec.Adult, tt.wantAdult)
			}
			if rec.Year() != tt.wantYear {
				t.Errorf("Year = %d, want %d", rec.Year(), tt.wantYear)
			}
		})
	}
}

func TestTokenizeWithoutMatchesScoresZero(t *testing.T) {
	rec := tokenize(t, "https://example.com/holiday.mp4")
	if rec.ResolutionScore != 0 || rec.TagScore != 0 {
		t.Fatalf("scores = %v/%v, want zero", rec.ResolutionScore, rec.TagScore)
	}
	if rec.HasDate() {
		t.Fatalf("unexpected date %v", rec.Date)
	}
	if rec.Title != "Holiday" {
		t.Fatalf("Title = %q", rec.Title)
	}
}

func TestRender(t *testing.T) {
	rec := tokenize(t, testsupport.SampleURLs[0], "GROUP")
	want := "# Movie Title (2014)\n" +
		"# Movie.Title.2014.1080p.x264-GROUP.mkv\n" +
		testsupport.SampleURLs[0]
	if got := rec.Render(); got != want {
		t.Fatalf("Render() =\n%s\nwant\n%s", got, want)
	}

	rec = tokenize(t, "https://example.com/Am%C3%A9lie.2001.720p.BluRay.x264-AMIABLE.mkv")
	want = "# Amelie (2001)\n" +
		"# 'BluRay/Amélie.2001.720p.BluRay.x264-AMIABLE.mkv'\n" +
		"https://example.com/Am%C3%A9lie.2001.720p.BluRay.x264-AMIABLE.mkv"
	if got := rec.Render(); got != want {
		t.Fatalf("Render() =\n%s\nwant\n%s", got, want)
	}

	rec = tokenize(t, "https://example.com/holiday.mp4")
	if got := rec.Render(); got != "# Holiday\n# holiday.mp4\nhttps://example.com/holiday.mp4" {
		t.Fatalf("Render() = %q", got)
	}
}

func TestRenderAll(t *testing.T) {
	a := tokenize(t, "https://example.com/a.mp4")
	b := tokenize(t, "https://example.com/b.mp4")
	got := RenderAll([]Record{a, b})
	want := a.Render() + "\n\n" + b.Render()
	if got != want {
		t.Fatalf("RenderAll = %q, want %q", got, want)
	}
}

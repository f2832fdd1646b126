package textutil

import (
	"reflect"
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii", "Movie.Title", "Movie.Title"},
		{"acute accent", "Amélie", "Amelie"},
		{"mixed marks", "Crème.Brûlée.2019", "Creme.Brulee.2019"},
		{"tilde", "Año.Nuevo", "Ano.Nuevo"},
		{"empty", "", ""},
		{"only marks", "\u0301\u0300", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fold(tt.input); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSegment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a/b.mkv", "a-b.mkv"},
		{`a\b.mkv`, "a-b.mkv"},
		{"plain.mkv", "plain.mkv"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeSegment(tt.input); got != tt.want {
			t.Errorf("SanitizeSegment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Movie.Title.mkv", "Movie.Title.mkv"},
		{"hdr/Movie.Title.mkv", "hdr/Movie.Title.mkv"},
		{"Movie Title.mkv", "'Movie Title.mkv'"},
		{"it's.mkv", `'it'"'"'s.mkv'`},
		{"", "''"},
	}
	for _, tt := range tests {
		if got := ShellQuote(tt.input); got != tt.want {
			t.Errorf("ShellQuote(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTitleWords(t *testing.T) {
	got := TitleWords([]string{"MOVIE", "title", "x264"})
	want := []string{"Movie", "Title", "X264"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("TitleWords() = %v, want %v", got, want)
	}
}

func TestIsNumeric(t *testing.T) {
	cases := map[string]bool{
		"2014":  true,
		"0":     true,
		"":      false,
		"1080p": false,
		"-1":    false,
	}
	for input, want := range cases {
		if got := IsNumeric(input); got != want {
			t.Errorf("IsNumeric(%q) = %v, want %v", input, got, want)
		}
	}
}

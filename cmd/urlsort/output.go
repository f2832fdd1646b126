package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"urlsort/internal/ranking"
	"urlsort/internal/textutil"
	"urlsort/internal/urlrecord"
)

const (
	ansiBlue  = "\x1b[34m"
	ansiReset = "\x1b[0m"
)

func writeM3U(w io.Writer, scored []ranking.Scored) error {
	if len(scored) == 0 {
		return nil
	}
	records := make([]urlrecord.Record, len(scored))
	for i, s := range scored {
		records[i] = s.Record
	}
	text := urlrecord.RenderAll(records)
	if shouldColorize(w) {
		text = colorizeComments(text)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func colorizeComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			lines[i] = ansiBlue + line + ansiReset
		}
	}
	return strings.Join(lines, "\n")
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderScoredTable(scored []ranking.Scored) string {
	headers := []string{"#", "Title", "Year", "Resolution", "Tags", "Res", "Tag", "Pop", "Overall", "URL"}
	aligns := []columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, len(scored))
	for _, s := range scored {
		rows = append(rows, []string{
			strconv.Itoa(s.Ordinal),
			s.Title,
			textutil.Ternary(s.HasDate(), strconv.Itoa(s.Year()), "-"),
			strings.Join(s.Resolutions, " "),
			strings.Join(s.Tags, " "),
			formatScore(s.ResolutionScore),
			formatScore(s.TagScore),
			formatScore(s.Popularity),
			formatScore(s.Overall),
			s.URL,
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

type skippedLine struct {
	Ordinal int    `json:"ordinal"`
	Line    string `json:"line"`
	Error   string `json:"error"`
}

type rankPayload struct {
	Policy  string           `json:"policy"`
	Records []ranking.Scored `json:"records"`
	Skipped []skippedLine    `json:"skipped"`
}

func newRankPayload(policy ranking.Policy, scored []ranking.Scored, skipped []*urlrecord.ParseError) rankPayload {
	payload := rankPayload{
		Policy:  policy.String(),
		Records: scored,
		Skipped: make([]skippedLine, 0, len(skipped)),
	}
	if payload.Records == nil {
		payload.Records = []ranking.Scored{}
	}
	for _, perr := range skipped {
		payload.Skipped = append(payload.Skipped, skippedLine{
			Ordinal: perr.Ordinal,
			Line:    perr.Line,
			Error:   perr.Err.Error(),
		})
	}
	return payload
}

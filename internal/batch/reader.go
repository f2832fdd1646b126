package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// StdinSource names lines read from standard input.
const StdinSource = "-"

const maxLineBytes = 1 << 20

// listExtensions are the file suffixes read from a directory argument.
var listExtensions = []string{".list", ".txt"}

// Line is one non-blank input line.
type Line struct {
	Text    string
	Ordinal int
	Source  string
}

// Read collects lines from paths in order. A directory contributes its
// *.list and *.txt files sorted by name; "-" reads stdin. With no paths stdin
// is read.
func Read(ctx context.Context, paths []string, stdin io.Reader) ([]Line, error) {
	if len(paths) == 0 {
		paths = []string{StdinSource}
	}
	files, err := expandSources(paths)
	if err != nil {
		return nil, err
	}

	var lines []Line
	for _, source := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if source == StdinSource {
			if stdin == nil {
				return nil, fmt.Errorf("read %s: no standard input", source)
			}
			if lines, err = scan(ctx, stdin, source, lines); err != nil {
				return nil, err
			}
			continue
		}
		if lines, err = readFile(ctx, source, lines); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// ReadText splits text into lines numbered as a single source.
func ReadText(text, source string) []Line {
	lines, _ := scan(context.Background(), strings.NewReader(text), source, nil)
	return lines
}

// Texts returns the text of each line.
func Texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.Text
	}
	return out
}

func expandSources(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		if path == StdinSource {
			files = append(files, path)
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat input: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read input dir: %w", err)
		}
		var names []string
		for _, entry := range entries {
			if entry.IsDir() || !slices.Contains(listExtensions, strings.ToLower(filepath.Ext(entry.Name()))) {
				continue
			}
			names = append(names, entry.Name())
		}
		slices.Sort(names)
		for _, name := range names {
			files = append(files, filepath.Join(path, name))
		}
	}
	return files, nil
}

func readFile(ctx context.Context, path string, lines []Line) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()
	return scan(ctx, file, path, lines)
}

func scan(ctx context.Context, r io.Reader, source string, lines []Line) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		lines = append(lines, Line{Text: text, Ordinal: len(lines) + 1, Source: source})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return lines, nil
}

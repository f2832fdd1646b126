package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"urlsort/internal/config"
	"urlsort/internal/ranking"
	"urlsort/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithReleaseGroups("GROUP")}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	if err := os.MkdirAll(cfg.Paths.VocabDir, 0o755); err != nil {
		t.Fatalf("create vocab dir: %v", err)
	}
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("URLSORT_VOCAB_DIR", "")
	t.Setenv("URLSORT_LOG_LEVEL", "")

	configPath := filepath.Join(base, "urlsort.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	testsupport.WriteText(t, path, string(data))
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRankFromStdin(t *testing.T) {
	env := setupCLITestEnv(t)
	stdin := testsupport.SampleURLs[1] + "\n\n" + testsupport.SampleURLs[0] + "\n"

	out, _, err := runCLI(t, env, stdin, "rank", "--by", "highest_resolution")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	want := "# Movie Title (2014)\n" +
		"# Movie.Title.2014.1080p.x264-GROUP.mkv\n" +
		testsupport.SampleURLs[0] + "\n\n" +
		"# Movie Title (2016)\n" +
		"# Movie.Title.2016.720p.x264-GROUP.mkv\n" +
		testsupport.SampleURLs[1] + "\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestRootDefaultsToRank(t *testing.T) {
	env := setupCLITestEnv(t)
	input := testsupport.WriteLines(t, env.baseDir, "urls.txt", testsupport.SampleURLs...)

	out, _, err := runCLI(t, env, "", input, "--by", "latest")
	if err != nil {
		t.Fatalf("root rank: %v", err)
	}
	first := strings.Index(out, "(2016)")
	second := strings.Index(out, "(2014)")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected 2016 before 2014, got:\n%s", out)
	}
}

func TestRankJSONReportsSkippedLines(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.baseDir, "inputs")
	testsupport.WriteLines(t, dir, "a.list", testsupport.SampleURLs[0], "not a url")
	testsupport.WriteLines(t, dir, "b.list", testsupport.SampleURLs[1])

	out, _, err := runCLI(t, env, "", "rank", "--format", "json", dir)
	if err != nil {
		t.Fatalf("rank json: %v", err)
	}
	var payload struct {
		Policy  string           `json:"policy"`
		Records []ranking.Scored `json:"records"`
		Skipped []struct {
			Ordinal int    `json:"ordinal"`
			Line    string `json:"line"`
		} `json:"skipped"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if payload.Policy != "combo" {
		t.Fatalf("expected config default policy, got %q", payload.Policy)
	}
	if len(payload.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(payload.Records))
	}
	if len(payload.Skipped) != 1 || payload.Skipped[0].Ordinal != 2 || payload.Skipped[0].Line != "not a url" {
		t.Fatalf("unexpected skipped lines: %+v", payload.Skipped)
	}
	if payload.Records[0].Ordinal == payload.Records[1].Ordinal {
		t.Fatal("expected distinct ordinals")
	}
}

func TestRankTableFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env, strings.Join(testsupport.SampleURLs, "\n"), "rank", "-f", "table")
	if err != nil {
		t.Fatalf("rank table: %v", err)
	}
	requireContains(t, out, "Movie Title")
	requireContains(t, out, "1080p")
	requireContains(t, out, "Overall")
}

func TestRankRejectsUnknownPolicyAndFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, env, "", "rank", "--by", "alphabetical")
	if !errors.Is(err, ranking.ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy, got %v", err)
	}
	_, _, err = runCLI(t, env, "", "rank", "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestVocabCommands(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithVocabList("resolutions", "2160p\n\n1080p 1080i\n\n720p\n"))

	out, _, err := runCLI(t, env, "", "vocab", "show", "resolutions")
	if err != nil {
		t.Fatalf("vocab show: %v", err)
	}
	requireContains(t, out, "resolutions (4 terms, 3 tiers)")
	requireContains(t, out, "1080i")

	out, _, err = runCLI(t, env, "", "vocab", "sources")
	if err != nil {
		t.Fatalf("vocab sources: %v", err)
	}
	requireContains(t, out, filepath.Join(env.cfg.Paths.VocabDir, "resolutions.list"))
	requireContains(t, out, "built-in")

	if _, _, err := runCLI(t, env, "", "vocab", "show", "nope"); err == nil {
		t.Fatal("expected unknown list error")
	}
}

func TestCacheLifecycle(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCache())
	stdin := strings.Join(testsupport.SampleURLs, "\n")

	first, _, err := runCLI(t, env, stdin, "rank")
	if err != nil {
		t.Fatalf("first rank: %v", err)
	}
	second, _, err := runCLI(t, env, stdin, "rank")
	if err != nil {
		t.Fatalf("second rank: %v", err)
	}
	if first != second {
		t.Fatalf("cached run differs:\n%s\nvs\n%s", first, second)
	}

	out, _, err := runCLI(t, env, "", "cache", "list")
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "2 entries")
	requireContains(t, out, "tokenize")

	out, _, err = runCLI(t, env, "", "cache", "prune")
	if err != nil {
		t.Fatalf("cache prune: %v", err)
	}
	requireContains(t, out, "Removed 0 expired entries")

	out, _, err = runCLI(t, env, "", "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 2 entries")
}

func TestPasteFetchRanksURLLists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/raw/list1":
			_, _ = w.Write([]byte(strings.Join(testsupport.SampleURLs, "\n")))
		case "/raw/spam":
			_, _ = w.Write([]byte("Copy & Paste link\nhttps://spam.example/x"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithPasteBaseURL(server.URL))
	out, stderr, err := runCLI(t, env, "", "paste", "fetch", "--all", "list1", server.URL+"/spam", "missing")
	if err != nil {
		t.Fatalf("paste fetch: %v", err)
	}
	requireContains(t, out, "# Movie Title (2014)")
	requireContains(t, out, "# Movie Title (2016)")
	requireContains(t, stderr, server.URL+"/list1\turl list")
	requireContains(t, stderr, server.URL+"/spam\treject")
}

func TestPasteFetchAllFailing(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithPasteBaseURL(server.URL))
	if _, _, err := runCLI(t, env, "", "paste", "fetch", "a", "b"); err == nil {
		t.Fatal("expected error when every fetch fails")
	}
}

func TestPasteLinks(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithPasteBaseURL("https://pastebin.com"))
	alert := filepath.Join(env.baseDir, "alert.html")
	testsupport.WriteText(t, alert, `<a href="https://pastebin.com/AAA">a</a><a href="https://other/BBB">b</a><a href="https://pastebin.com/CCC">c</a>`)

	out, _, err := runCLI(t, env, "", "paste", "links", alert)
	if err != nil {
		t.Fatalf("paste links: %v", err)
	}
	if out != "AAA\nCCC\n" {
		t.Fatalf("unexpected keys: %q", out)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Log directory")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
}

func TestConfigValidateReportsMissingVocabDir(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Paths.VocabDir = filepath.Join(env.baseDir, "does-not-exist")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, env, "", "config", "validate")
	if err == nil {
		t.Fatalf("expected failing checks, got output:\n%s", out)
	}
	requireContains(t, out, "Vocabulary directory")
}

func TestLogsShowsRunLog(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, testsupport.SampleURLs[0], "-v", "rank"); err != nil {
		t.Fatalf("rank: %v", err)
	}

	out, _, err := runCLI(t, env, "", "logs", "--lines", "0")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "ranked batch")

	out, _, err = runCLI(t, env, "", "logs", "--day", "2001-01-01")
	if err != nil {
		t.Fatalf("logs --day: %v", err)
	}
	requireContains(t, out, "No log entries available")
}

func TestPasteFetchWritesOutputFiles(t *testing.T) {
	playlist := "#EXTM3U\n#EXTINF:-1,Channel\nhttp://stream.example/live.m3u8"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/raw/pl":
			_, _ = w.Write([]byte(playlist))
		case "/raw/tor":
			_, _ = w.Write([]byte("notes\n\nhttp://abcdefgh.onion/x\n"))
		case "/raw/list":
			_, _ = w.Write([]byte(testsupport.SampleURLs[1] + "\n" + testsupport.SampleURLs[0]))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithPasteBaseURL(server.URL))
	dir := t.TempDir()
	paths := map[string]string{
		"m3u":   filepath.Join(dir, "fresh.m3u"),
		"onion": filepath.Join(dir, "onion.txt"),
		"list":  filepath.Join(dir, "urls.list"),
		"text":  filepath.Join(dir, "urls.txt"),
	}
	_, stderr, err := runCLI(t, env, "", "paste", "fetch", "--by", "highest_resolution",
		"--m3u", paths["m3u"], "--onion", paths["onion"], "--list", paths["list"], "--text", paths["text"],
		"pl", "tor", "list")
	if err != nil {
		t.Fatalf("paste fetch: %v", err)
	}
	requireContains(t, stderr, server.URL+"/pl\tm3u")
	requireContains(t, stderr, server.URL+"/tor\tonion links")

	read := func(name string) string {
		t.Helper()
		data, err := os.ReadFile(paths[name])
		if err != nil {
			t.Fatalf("read %s output: %v", name, err)
		}
		return string(data)
	}
	if got := read("m3u"); got != playlist+"\n" {
		t.Fatalf("m3u output = %q", got)
	}
	if got := read("onion"); got != "notes\nhttp://abcdefgh.onion/x\n" {
		t.Fatalf("onion output = %q", got)
	}
	if got := read("list"); got != testsupport.SampleURLs[1]+"\n"+testsupport.SampleURLs[0]+"\n" {
		t.Fatalf("list output should keep input order, got %q", got)
	}
	text := read("text")
	requireContains(t, text, "# Movie Title (2014)")
	requireContains(t, text, "# Movie Title (2016)")
	if strings.Index(text, "(2014)") > strings.Index(text, "(2016)") {
		t.Fatalf("text output should be ranked by resolution, got %q", text)
	}
}

func TestPasteFetchPlaylistAge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#EXTM3U\nhttp://stream.example/a"))
	}))
	defer server.Close()

	env := setupCLITestEnv(t, testsupport.WithPasteBaseURL(server.URL), testsupport.WithCache())
	out := filepath.Join(t.TempDir(), "fresh.m3u")
	if _, _, err := runCLI(t, env, "", "paste", "fetch", "--m3u", out, "pl"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	// The second run reads the memoized body and its first fetch time.
	if _, _, err := runCLI(t, env, "", "paste", "fetch", "--m3u", out, "--m3u-age", "0", "pl"); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil || !strings.Contains(string(data), "#EXTM3U") {
		t.Fatalf("age 0 should keep every playlist, got %q err=%v", data, err)
	}

	if _, _, err := runCLI(t, env, "", "paste", "fetch", "--m3u", out, "--m3u-age", "-1", "pl"); err == nil {
		t.Fatal("expected negative --m3u-age to be rejected")
	}
}

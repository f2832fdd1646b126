package vocab

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"urlsort/internal/wordrank"
)

//go:embed defaults/*.list
var defaultsFS embed.FS

// List names, also the file stems looked up in the vocabulary directory.
const (
	ListResolutions = "resolutions"
	ListTags        = "tag_terms"
	ListSearchTerms = "search_terms"
	ListCommonWords = "common_words"
)

// Default biases. The resolution bias puts the sd tier at zero, the score of
// a URL without a resolution, so any better resolution outranks an untagged
// URL. Tag and search-term lists end below zero.
const (
	DefaultResolutionBias = -1
	DefaultTagBias        = -5
	DefaultSearchBias     = -5
)

// DefaultReleaseGroups are trailing tags that name the uploader, not content.
var DefaultReleaseGroups = []string{
	"AMIABLE", "CPG", "CTG", "DIAMOND", "DRONES", "EVO", "GECKOS", "KLEENEX", "KTR",
	"PLAYNOW", "RARBG", "ROVER", "SEXXX", "SPARKS", "VBT", "VSEX", "XVID",
}

// Options controls where lists come from and how rankers are biased.
type Options struct {
	Dir            string
	ResolutionBias int
	TagBias        int
	SearchBias     int
	// ReleaseGroups extends DefaultReleaseGroups.
	ReleaseGroups []string
}

// DefaultOptions returns the built-in biases with no directory.
func DefaultOptions() Options {
	return Options{
		ResolutionBias: DefaultResolutionBias,
		TagBias:        DefaultTagBias,
		SearchBias:     DefaultSearchBias,
	}
}

// Source records where a list was read from.
type Source struct {
	List  string
	Paths []string
}

// Builtin reports whether the list came from the embedded defaults.
func (s Source) Builtin() bool {
	return len(s.Paths) == 0
}

// Vocabulary is the immutable bundle of rankers and word sets.
type Vocabulary struct {
	Resolutions *wordrank.Ranker
	Tags        *wordrank.Ranker
	SearchTerms *wordrank.Ranker

	commonWords   map[string]struct{}
	releaseGroups map[string]struct{}
	sources       []Source
	digest        string
}

// Load reads every list and builds the rankers.
func Load(opts Options) (*Vocabulary, error) {
	h := sha256.New()
	v := &Vocabulary{}

	texts := make(map[string]string, 4)
	for _, name := range []string{ListResolutions, ListTags, ListSearchTerms, ListCommonWords} {
		text, src, err := readList(opts.Dir, name)
		if err != nil {
			return nil, err
		}
		texts[name] = text
		v.sources = append(v.sources, src)
		fmt.Fprintf(h, "%s\x00%s\x00", name, text)
	}

	var err error
	if v.Resolutions, err = wordrank.Parse(texts[ListResolutions], opts.ResolutionBias); err != nil {
		return nil, fmt.Errorf("load %s: %w", ListResolutions, err)
	}
	if v.Tags, err = wordrank.Parse(texts[ListTags], opts.TagBias); err != nil {
		return nil, fmt.Errorf("load %s: %w", ListTags, err)
	}
	if v.SearchTerms, err = wordrank.Parse(texts[ListSearchTerms], opts.SearchBias); err != nil {
		return nil, fmt.Errorf("load %s: %w", ListSearchTerms, err)
	}

	v.commonWords = make(map[string]struct{})
	for _, w := range strings.Fields(texts[ListCommonWords]) {
		v.commonWords[strings.ToLower(w)] = struct{}{}
	}

	v.releaseGroups = make(map[string]struct{})
	for _, g := range append(append([]string(nil), DefaultReleaseGroups...), opts.ReleaseGroups...) {
		g = strings.ToUpper(strings.TrimSpace(g))
		if g != "" {
			v.releaseGroups[g] = struct{}{}
		}
	}
	groups := v.ReleaseGroups()
	fmt.Fprintf(h, "groups\x00%s\x00", strings.Join(groups, " "))
	for _, bias := range []int{opts.ResolutionBias, opts.TagBias, opts.SearchBias} {
		h.Write([]byte(strconv.Itoa(bias) + "\x00"))
	}
	v.digest = hex.EncodeToString(h.Sum(nil))
	return v, nil
}

// Default loads the embedded lists with the default biases.
func Default() (*Vocabulary, error) {
	return Load(DefaultOptions())
}

func readList(dir, name string) (string, Source, error) {
	src := Source{List: name}
	if dir != "" {
		file := filepath.Join(dir, name+".list")
		data, err := os.ReadFile(file)
		switch {
		case err == nil:
			src.Paths = []string{file}
			return string(data), src, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", src, fmt.Errorf("read %s: %w", file, err)
		}

		text, paths, err := readListDir(filepath.Join(dir, name+".d"))
		if err != nil {
			return "", src, err
		}
		if len(paths) > 0 {
			src.Paths = paths
			return text, src, nil
		}
	}

	data, err := defaultsFS.ReadFile("defaults/" + name + ".list")
	if err != nil {
		return "", src, fmt.Errorf("read builtin %s: %w", name, err)
	}
	return string(data), src, nil
}

// readListDir concatenates the *.list files of dir with a blank line between
// files, so each file starts a new tier.
func readListDir(dir string) (string, []string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, nil
		}
		return "", nil, fmt.Errorf("read %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".list") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return "", nil, fmt.Errorf("read %s: %w", path, err)
		}
		parts = append(parts, strings.TrimSpace(string(data)))
		paths = append(paths, path)
	}
	return strings.Join(parts, "\n\n"), paths, nil
}

// IsCommon reports whether word is in the common-word set.
func (v *Vocabulary) IsCommon(word string) bool {
	_, ok := v.commonWords[strings.ToLower(word)]
	return ok
}

// IsReleaseGroup reports whether word names a known release group.
func (v *Vocabulary) IsReleaseGroup(word string) bool {
	_, ok := v.releaseGroups[strings.ToUpper(word)]
	return ok
}

// CommonWords returns the common-word set, sorted.
func (v *Vocabulary) CommonWords() []string {
	return sortedKeys(v.commonWords)
}

// ReleaseGroups returns the release-group names, sorted.
func (v *Vocabulary) ReleaseGroups() []string {
	return sortedKeys(v.releaseGroups)
}

// Sources lists where each list was read from.
func (v *Vocabulary) Sources() []Source {
	out := make([]Source, len(v.sources))
	copy(out, v.sources)
	return out
}

// Digest identifies the loaded lists and biases. Cached tokenizations are
// only valid for the digest they were produced under.
func (v *Vocabulary) Digest() string {
	return v.digest
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

package wordrank

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrEmpty is returned when a configuration holds no words.
var ErrEmpty = errors.New("wordrank: empty configuration")

// phraseJoin separates the words of a phrase entry.
const phraseJoin = "_"

var blankLines = regexp.MustCompile(`\n[ \t\r]*\n`)

// Entry is one configured word or phrase with its rank.
type Entry struct {
	Term string  `json:"term"`
	Rank float64 `json:"rank"`
	// Tier is the 0-based index of the declaring tier.
	Tier int `json:"tier"`
}

// Ranker holds the ranks of one vocabulary.
type Ranker struct {
	ranks   map[string]float64
	entries []Entry
	phrases [][]string
	tiers   int
}

// New builds a Ranker from tiers ordered from most to least important.
// With bias > 0 the first tier starts at rank bias; otherwise the last tier
// sits at rank bias, so bias 0 puts it at zero.
func New(tiers [][]string, bias int) (*Ranker, error) {
	cleaned := make([][]string, 0, len(tiers))
	for _, tier := range tiers {
		words := make([]string, 0, len(tier))
		for _, w := range tier {
			w = normalize(w)
			if w != "" {
				words = append(words, w)
			}
		}
		if len(words) > 0 {
			cleaned = append(cleaned, words)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrEmpty
	}

	base := float64(len(cleaned) - 1 + bias)
	if bias > 0 {
		base = float64(bias)
	}

	r := &Ranker{ranks: make(map[string]float64), tiers: len(cleaned)}
	for t, tier := range cleaned {
		step := subRankStep(len(tier))
		for i, w := range tier {
			if _, seen := r.ranks[w]; seen {
				continue
			}
			rank := base - float64(i)*step
			r.ranks[w] = rank
			r.entries = append(r.entries, Entry{Term: w, Rank: rank, Tier: t})
			if strings.Contains(w, phraseJoin) {
				if words := phraseWords(w); len(words) > 1 {
					r.phrases = append(r.phrases, words)
				}
			}
		}
		base--
	}
	return r, nil
}

// Parse builds a Ranker from text where tiers are separated by blank lines
// and entries by whitespace.
func Parse(text string, bias int) (*Ranker, error) {
	blocks := blankLines.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1)
	tiers := make([][]string, 0, len(blocks))
	for _, block := range blocks {
		if words := strings.Fields(block); len(words) > 0 {
			tiers = append(tiers, words)
		}
	}
	return New(tiers, bias)
}

func subRankStep(size int) float64 {
	if size <= 1 {
		return 0
	}
	places := 1 + math.Round(math.Log10(float64(size)))
	return math.Pow(10, -places)
}

func normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func phraseWords(entry string) []string {
	parts := strings.Split(entry, phraseJoin)
	words := parts[:0]
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// Contains reports whether word is configured, ignoring case and
// surrounding whitespace.
func (r *Ranker) Contains(word string) bool {
	_, ok := r.ranks[normalize(word)]
	return ok
}

// Rank returns the rank of word.
func (r *Ranker) Rank(word string) (float64, bool) {
	rank, ok := r.ranks[normalize(word)]
	return rank, ok
}

// Len returns the number of configured entries.
func (r *Ranker) Len() int {
	return len(r.entries)
}

// Tiers returns the number of non-empty tiers.
func (r *Ranker) Tiers() int {
	return r.tiers
}

// Entries returns the configured entries in declaration order.
func (r *Ranker) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Terms returns the configured entries ordered by descending rank.
func (r *Ranker) Terms() []string {
	entries := r.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rank > entries[j].Rank
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Term
	}
	return out
}

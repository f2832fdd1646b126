package ranking

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"urlsort/internal/textutil"
	"urlsort/internal/urlrecord"
	"urlsort/internal/wordrank"
)

// undatedAge is the age assumed for records without a date.
const undatedAge = 3 * 365 * 24 * time.Hour

// freshDays is the age below which every record counts as equally new.
const freshDays = 5

// keySeparator joins title words into a group key.
const keySeparator = "\x1f"

// WordSet reports whether a word is too common to signal popularity.
type WordSet interface {
	IsCommon(word string) bool
}

// Engine ranks batches of records. SearchTerms and CommonWords may be nil.
type Engine struct {
	SearchTerms *wordrank.Ranker
	CommonWords WordSet
	Now         time.Time
}

// Scored is a record with the values its ordering was computed from.
type Scored struct {
	urlrecord.Record
	Group      string  `json:"group"`
	Popularity float64 `json:"popularity"`
	Relevance  float64 `json:"relevance"`
	Age        float64 `json:"age"`
	Overall    float64 `json:"overall"`
}

// Group is the set of records sharing a title word sequence.
type Group struct {
	Key        string
	Tokens     []string
	Members    []int
	Popularity float64
	Relevance  float64
}

// Rank returns records ordered by policy.
func (e Engine) Rank(records []urlrecord.Record, policy Policy) ([]urlrecord.Record, error) {
	scored, err := e.RankScored(records, policy)
	if err != nil {
		return nil, err
	}
	out := make([]urlrecord.Record, len(scored))
	for i, s := range scored {
		out[i] = s.Record
	}
	return out, nil
}

// RankScored is Rank that keeps the computed scores.
func (e Engine) RankScored(records []urlrecord.Record, policy Policy) ([]Scored, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, policy)
	}
	groups, scored := e.score(records)

	if policy == WordPopularity {
		order := make([]*Group, len(groups))
		copy(order, groups)
		slices.SortStableFunc(order, func(a, b *Group) int {
			if c := cmp.Compare(b.Popularity, a.Popularity); c != 0 {
				return c
			}
			return strings.Compare(a.Key, b.Key)
		})
		out := make([]Scored, 0, len(scored))
		for _, g := range order {
			for _, idx := range g.Members {
				out = append(out, scored[idx])
			}
		}
		return out, nil
	}

	out := make([]Scored, len(scored))
	copy(out, scored)
	slices.SortStableFunc(out, comparator(policy))
	return out, nil
}

// Groups returns the title groups of records in first-seen order.
func (e Engine) Groups(records []urlrecord.Record) []Group {
	groups, _ := e.score(records)
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = *g
	}
	return out
}

func comparator(policy Policy) func(a, b Scored) int {
	switch policy {
	case HighestResolution:
		return func(a, b Scored) int {
			return cmpChain(
				cmp.Compare(-a.ResolutionScore, -b.ResolutionScore),
				cmp.Compare(a.Ordinal, b.Ordinal),
			)
		}
	case Latest:
		return func(a, b Scored) int {
			return cmpChain(
				cmp.Compare(a.Age, b.Age),
				cmp.Compare(a.Ordinal, b.Ordinal),
			)
		}
	case HighestRank:
		return func(a, b Scored) int {
			return cmpChain(
				cmp.Compare(a.Relevance, b.Relevance),
				cmp.Compare(a.Age, b.Age),
				cmp.Compare(a.Ordinal, b.Ordinal),
			)
		}
	default:
		return func(a, b Scored) int {
			return cmpChain(
				cmp.Compare(-a.Overall, -b.Overall),
				cmp.Compare(a.Age, b.Age),
				cmp.Compare(a.Ordinal, b.Ordinal),
			)
		}
	}
}

func cmpChain(results ...int) int {
	for _, c := range results {
		if c != 0 {
			return c
		}
	}
	return 0
}

func (e Engine) score(records []urlrecord.Record) ([]*Group, []Scored) {
	byKey := make(map[string]*Group)
	var groups []*Group
	keys := make([]string, len(records))

	for i, rec := range records {
		tokens := make([]string, len(rec.Words))
		for j, w := range rec.Words {
			tokens[j] = strings.ToLower(w)
		}
		key := strings.Join(tokens, keySeparator)
		keys[i] = key
		g, ok := byKey[key]
		if !ok {
			g = &Group{Key: key, Tokens: tokens}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.Members = append(g.Members, i)
	}

	freq := make(map[string]int)
	for _, g := range groups {
		for _, t := range distinct(g.Tokens) {
			if e.ignored(t) {
				continue
			}
			freq[t] += len(g.Members)
		}
	}

	for _, g := range groups {
		for _, t := range distinct(g.Tokens) {
			if f := freq[t]; f > 0 {
				g.Popularity += math.Log2(float64(f))
			}
		}
		if e.SearchTerms != nil {
			if res := e.SearchTerms.ReplaceTerms(g.Tokens, wordrank.Sum); res.Scored {
				g.Relevance = -res.Score
			}
		}
	}

	scored := make([]Scored, len(records))
	for i, rec := range records {
		g := byKey[keys[i]]
		s := Scored{
			Record:     rec,
			Group:      strings.ReplaceAll(g.Key, keySeparator, " "),
			Popularity: g.Popularity,
			Relevance:  g.Relevance,
			Age:        e.ageMetric(rec),
		}
		s.Overall = rec.TagScore + 4*rec.ResolutionScore - s.Relevance/math.Pi
		scored[i] = s
	}
	return groups, scored
}

func (e Engine) ignored(token string) bool {
	if textutil.IsNumeric(token) {
		return true
	}
	return e.CommonWords != nil && e.CommonWords.IsCommon(token)
}

// ageMetric is ln(age in days), or 0 for anything under five days old.
func (e Engine) ageMetric(rec urlrecord.Record) float64 {
	age := undatedAge
	if rec.HasDate() {
		age = e.now().Sub(rec.Date)
	}
	days := age.Hours() / 24
	if days < freshDays {
		return 0
	}
	return math.Log(days)
}

func (e Engine) now() time.Time {
	if e.Now.IsZero() {
		return time.Now()
	}
	return e.Now
}

func distinct(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

package wordrank

import (
	"sort"
	"strings"
)

// Reducer folds match ranks into one score.
type Reducer func(acc, rank float64) float64

// Sum adds ranks together.
func Sum(acc, rank float64) float64 { return acc + rank }

// Max keeps the highest rank.
func Max(acc, rank float64) float64 {
	if rank > acc {
		return rank
	}
	return acc
}

// Match is a recognised term. Phrases are reported in their configured
// underscore form; single words keep the token's original spelling.
type Match struct {
	Rank float64
	Term string
}

// Result is the outcome of ReplaceTerms. Scored is false when nothing
// matched, which is distinct from a score of zero.
type Result struct {
	Score    float64
	Scored   bool
	Matches  []Match
	Leftover []string
}

// ReplaceTerms removes recognised terms from tokens. Phrases are matched
// first, in declaration order, against contiguous tokens; a phrase consumes
// only its first occurrence and consumed tokens cannot take part in another
// match. The remaining tokens are then looked up one by one. Matches are
// sorted by (rank, term) before reduce combines their ranks.
func (r *Ranker) ReplaceTerms(tokens []string, reduce Reducer) Result {
	consumed := make([]bool, len(tokens))
	var matches []Match

	for _, phrase := range r.phrases {
		if at := findPhrase(tokens, consumed, phrase); at >= 0 {
			for i := range phrase {
				consumed[at+i] = true
			}
			term := strings.Join(phrase, phraseJoin)
			matches = append(matches, Match{Rank: r.ranks[term], Term: term})
		}
	}

	leftover := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if consumed[i] || tok == "" {
			continue
		}
		if rank, ok := r.Rank(tok); ok {
			matches = append(matches, Match{Rank: rank, Term: tok})
			continue
		}
		leftover = append(leftover, tok)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Rank != matches[j].Rank {
			return matches[i].Rank < matches[j].Rank
		}
		return matches[i].Term < matches[j].Term
	})

	res := Result{Matches: matches, Leftover: leftover}
	for i, m := range matches {
		if i == 0 {
			res.Score = m.Rank
			continue
		}
		res.Score = reduce(res.Score, m.Rank)
	}
	res.Scored = len(matches) > 0
	return res
}

// Terms returns the terms of all matches in match order.
func (res Result) Terms() []string {
	out := make([]string, len(res.Matches))
	for i, m := range res.Matches {
		out[i] = m.Term
	}
	return out
}

func findPhrase(tokens []string, consumed []bool, phrase []string) int {
	n := len(phrase)
	for start := 0; start+n <= len(tokens); start++ {
		ok := true
		for i, w := range phrase {
			if consumed[start+i] || !strings.EqualFold(tokens[start+i], w) {
				ok = false
				break
			}
		}
		if ok {
			return start
		}
	}
	return -1
}

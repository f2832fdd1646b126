package ranking

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned for a policy name that is not recognised.
var ErrUnknownPolicy = errors.New("unknown ordering policy")

// Policy selects an ordering.
type Policy int

const (
	// Combo weighs tags, resolution and relevance, then age.
	Combo Policy = iota
	// HighestResolution puts the best resolution first.
	HighestResolution
	// Latest puts the most recently dated records first.
	Latest
	// HighestRank orders by search relevance, then age.
	HighestRank
	// WordPopularity emits whole title groups, most popular words first.
	WordPopularity
)

var policyNames = []string{
	Combo:             "combo",
	HighestResolution: "highest_resolution",
	Latest:            "latest",
	HighestRank:       "highest_rank",
	WordPopularity:    "word_popularity",
}

func (p Policy) String() string {
	if p < 0 || int(p) >= len(policyNames) {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

// Valid reports whether p is one of the declared policies.
func (p Policy) Valid() bool {
	return p >= 0 && int(p) < len(policyNames)
}

// Policies lists every policy in declaration order.
func Policies() []Policy {
	out := make([]Policy, len(policyNames))
	for i := range policyNames {
		out[i] = Policy(i)
	}
	return out
}

// PolicyNames lists every policy name in declaration order.
func PolicyNames() []string {
	return append([]string(nil), policyNames...)
}

// ParsePolicy resolves a policy name. The empty name selects Combo; dashes
// and underscores are interchangeable.
func ParsePolicy(name string) (Policy, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if normalized == "" {
		return Combo, nil
	}
	for i, candidate := range policyNames {
		if candidate == normalized {
			return Policy(i), nil
		}
	}
	return Combo, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownPolicy, name, strings.Join(policyNames, ", "))
}

// Package wordrank maps vocabulary words and phrases to numeric ranks
// loaded from ordered tiers.
//
// Earlier tiers outrank later ones. Within a tier, earlier entries rank
// slightly higher so declaration order still breaks ties. Entries joined
// with underscores are phrases and match a contiguous run of tokens.
//
// A Ranker is immutable after construction and safe for concurrent use.
package wordrank

// Package ranking orders tokenized URL records.
//
// Records are grouped by their remaining title words to measure how popular
// each title is across the batch, scored against the search-term vocabulary,
// and sorted by one of a closed set of policies. Every policy ends its
// comparison with the record ordinal, so the result is a total order.
package ranking

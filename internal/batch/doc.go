// Package batch reads URL lines from files, directories, or stdin and turns
// them into tokenized records.
//
// Ordinals count non-blank lines across every source in order, starting at 1.
// Malformed lines are reported with their ordinal and skipped; they never stop
// the batch.
package batch

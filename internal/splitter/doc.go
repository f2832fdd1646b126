// Package splitter decomposes media filenames into ordered word-groups.
//
// Splitting runs in stages. Stage 0 folds the text to a diacritic-free form,
// stage 1 wraps recognizable shapes (bracketed spans, container and codec
// tokens, resolutions, release-group capitals, long digit blobs) in a private
// delimiter, and stages 2 and 3 cut the wrapped text into trimmed fragments.
// The returned Stage tells callers how far the refinement got.
//
// Split is pure: identical input always produces identical output, so results
// may be cached by input string.
package splitter

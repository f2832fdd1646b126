// Package textutil provides text helpers shared by the tokenizer and the
// renderers.
//
// The primary use cases are:
//   - Folding text to a diacritic-free form before filename splitting
//   - Sanitizing filename segments for display and tag paths
//   - Quoting strings for shell-safe comment lines
//   - Title casing of derived titles
package textutil

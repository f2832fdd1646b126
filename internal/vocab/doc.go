// Package vocab loads the word lists that drive tokenization and ranking:
// resolutions, content tags, search terms, common words and release groups.
//
// Each list is read from <dir>/<name>.list, or from every *.list file in
// <dir>/<name>.d in name order. Lists missing from the directory fall back to
// the built-in defaults.
package vocab

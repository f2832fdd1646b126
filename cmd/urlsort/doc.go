// Package main hosts the urlsort CLI entrypoint and command graph.
//
// The Cobra-based command tree reads URL lists from files or stdin, ranks
// them, and writes m3u blocks, tables, or JSON. Supporting commands inspect
// the word lists, maintain the memo cache, fetch pastes, and scaffold
// configuration. Configuration resolution, vocabulary loading, and logger
// setup happen once per invocation in commandContext.
//
// Keep this package lean: behaviour lives in the internal packages and is
// surfaced here through commands and flags.
package main

// Package memo persists function results keyed by a name and string
// arguments in a SQLite database.
//
// Successful results and failures are both remembered, each with an optional
// expiry. Wrap turns a string function into its memoized form; List, Prune,
// and Clear support inspection and maintenance from the CLI. Processes sharing
// one database coordinate through a lock file beside it: ordinary use holds a
// shared lock while Prune and Clear take it exclusively.
package memo

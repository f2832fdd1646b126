// Package preflight checks that the filesystem paths and the paste host a
// configuration points at are usable.
//
// "urlsort config validate" runs RunAll and prints each Result. Checks are
// gated by configuration: the vocabulary directory is only checked when set,
// the cache directory only when the cache is enabled, and the paste host only
// when requested.
package preflight

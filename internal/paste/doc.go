// Package paste retrieves pastes, finds paste links in alert e-mails, and
// sorts paste contents into playlists, onion link logs, URL lists, or spam.
//
// Client issues GET requests against the paste host's raw endpoint and
// retries throttled or failing requests with backoff, honouring Retry-After.
// Successful bodies and failures can be memoized through the memo package so
// repeated runs do not refetch. ExtractAlertLinks reads the HTML body of an
// alert message with goquery. Classifier applies the content filter, matching
// stopwords with an Aho-Corasick automaton.
package paste

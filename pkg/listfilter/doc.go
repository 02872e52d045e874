// Package listfilter narrows order rows by a free-text term and an optional
// status.
//
// Filter is a stable, non-mutating filter: the output is always a subsequence
// of the input in the original order. View wraps a fixed record set with the
// search/status state a page keeps between keystrokes and applies the view's
// closed status set, failing closed on statuses it does not know.
package listfilter

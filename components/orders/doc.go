// Package orders provides a small net/http handler that serves a filtered
// booking list as JSON.
//
// The handler responds to GET and HEAD requests. The q parameter is a
// case-insensitive substring matched against the searchable fields, status
// narrows to one status ("all" or empty keeps every status) and limit caps the
// number of rows. A status outside the configured set matches nothing.
package orders

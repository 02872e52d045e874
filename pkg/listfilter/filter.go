package listfilter

import (
	"strings"

	"golang.org/x/text/cases"
)

// StatusAll is the sentinel status that disables status filtering.
const StatusAll = "all"

// Query is the free-text term plus the status selection.
type Query struct {
	Text   string `json:"q"`
	Status string `json:"status"`
}

// AnyStatus reports whether the query leaves statuses unfiltered.
func (q Query) AnyStatus() bool {
	status := strings.TrimSpace(q.Status)
	return status == "" || status == StatusAll
}

// Filter returns the records matching both the text term (a case-insensitive
// substring of any searchable field) and the status. An empty term matches
// everything. The result is never nil and never aliases records.
func Filter(records []Record, query Query, searchable []string) []Record {
	out := make([]Record, 0, len(records))

	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(query.Text))
	status := strings.TrimSpace(query.Status)
	anyStatus := query.AnyStatus()

	for _, record := range records {
		if !anyStatus && record.Status != status {
			continue
		}
		if term != "" && !matchesText(record, term, searchable, fold) {
			continue
		}
		out = append(out, record)
	}
	return out
}

func matchesText(record Record, term string, searchable []string, fold cases.Caser) bool {
	for _, name := range searchable {
		value, ok := record.Field(name)
		if !ok || value == "" {
			continue
		}
		if strings.Contains(fold.String(value), term) {
			return true
		}
	}
	return false
}

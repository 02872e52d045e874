package listfilter

import "strings"

// View is the per-page filtering state: a read-only record set, the statuses
// that view knows about, the searchable fields and the current query.
type View struct {
	records    []Record
	statuses   []string
	searchable []string
	query      Query
}

// NewView copies records and returns a view with an empty query. A nil
// statuses slice disables the closed-set check.
func NewView(records []Record, statuses []string, searchable ...string) *View {
	return &View{
		records:    append([]Record(nil), records...),
		statuses:   append([]string(nil), statuses...),
		searchable: append([]string(nil), searchable...),
		query:      Query{Status: StatusAll},
	}
}

// SetSearch replaces the free-text term.
func (v *View) SetSearch(text string) {
	v.query.Text = text
}

// SetStatus replaces the status selection; empty resets to StatusAll.
func (v *View) SetStatus(status string) {
	status = strings.TrimSpace(status)
	if status == "" {
		status = StatusAll
	}
	v.query.Status = status
}

// Query returns the current query.
func (v *View) Query() Query { return v.query }

// Statuses returns the view's status set.
func (v *View) Statuses() []string { return append([]string(nil), v.statuses...) }

// Searchable returns the view's searchable field names.
func (v *View) Searchable() []string { return append([]string(nil), v.searchable...) }

// Len reports the size of the unfiltered record set.
func (v *View) Len() int { return len(v.records) }

// KnownStatus reports whether status is StatusAll or part of the view's set.
func (v *View) KnownStatus(status string) bool {
	status = strings.TrimSpace(status)
	if status == "" || status == StatusAll || v.statuses == nil {
		return true
	}
	for _, known := range v.statuses {
		if known == status {
			return true
		}
	}
	return false
}

// Rows applies the current query.
func (v *View) Rows() []Record {
	return v.Apply(v.query)
}

// Apply filters the view's records with q without touching the stored query.
// Unknown statuses yield an empty result.
func (v *View) Apply(q Query) []Record {
	if !v.KnownStatus(q.Status) {
		return []Record{}
	}
	return Filter(v.records, q, v.searchable)
}

// Empty reports whether the current query matches nothing; pages render a
// single "no results" row in that case.
func (v *View) Empty() bool {
	return len(v.Rows()) == 0
}

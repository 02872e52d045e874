package validation

import (
	"encoding/json"
	"sort"
)

// Issue is a single field failure, suitable for ordered JSON output.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is either Accepted (carrying the completed values) or Rejected
// (carrying one message per failing field). The zero value is a rejection
// with no messages and should not be constructed directly.
type Result struct {
	accepted bool
	values   Values
	errors   map[string]string
}

// Accepted wraps a value set that passed every constraint.
func Accepted(values Values) Result {
	return Result{accepted: true, values: values.Clone()}
}

// Rejected wraps the per-field messages of a failed validation.
func Rejected(errs map[string]string) Result {
	out := make(map[string]string, len(errs))
	for field, msg := range errs {
		out[field] = msg
	}
	return Result{errors: out}
}

// OK reports whether the result is Accepted.
func (r Result) OK() bool { return r.accepted }

// Values returns a copy of the accepted values, or nil when rejected.
func (r Result) Values() Values {
	if !r.accepted {
		return nil
	}
	return r.values.Clone()
}

// Errors returns a copy of the rejection map, or nil when accepted.
func (r Result) Errors() map[string]string {
	if r.accepted || len(r.errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.errors))
	for field, msg := range r.errors {
		out[field] = msg
	}
	return out
}

// Error returns the message for field, if it failed.
func (r Result) Error(field string) (string, bool) {
	msg, ok := r.errors[field]
	return msg, ok
}

// Issues returns the rejection map sorted by field name.
func (r Result) Issues() []Issue {
	if r.accepted || len(r.errors) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.errors))
	for name := range r.errors {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Issue, 0, len(names))
	for _, name := range names {
		out = append(out, Issue{Field: name, Message: r.errors[name]})
	}
	return out
}

type resultJSON struct {
	Valid  bool              `json:"valid"`
	Values Values            `json:"values,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
	Issues []Issue           `json:"issues,omitempty"`
}

// MarshalJSON emits {"valid", "values"} or {"valid", "errors", "issues"}.
func (r Result) MarshalJSON() ([]byte, error) {
	payload := resultJSON{Valid: r.accepted}
	if r.accepted {
		payload.Values = r.values
	} else {
		payload.Errors = r.errors
		payload.Issues = r.Issues()
	}
	return json.Marshal(payload)
}

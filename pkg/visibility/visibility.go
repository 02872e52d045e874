// Package visibility decides which conditional form fields are shown and
// tracks the hidden/visible state of each dependent field as its controlling
// value changes.
package visibility

import "github.com/goliatone/go-propdash/pkg/validation"

// Evaluator determines whether a field should be visible based on a rule
// string and the current form values.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the form values while
// Extras lets callers inject feature flags or roles under the `extras.` prefix.
type Context struct {
	Values validation.Values
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// State is the visibility of a dependent field.
type State string

const (
	Hidden  State = "hidden"
	Visible State = "visible"
)

// Policy controls what happens to a dependent value on visible -> hidden.
type Policy string

const (
	// Clear discards the dependent value when the field is hidden.
	Clear Policy = "clear"
	// Keep retains the dependent value so it reappears when shown again.
	Keep Policy = "keep"
)

// ParsePolicy maps a configuration string onto a Policy, defaulting to Clear.
func ParsePolicy(raw string) Policy {
	if Policy(raw) == Keep {
		return Keep
	}
	return Clear
}

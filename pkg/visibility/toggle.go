package visibility

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-propdash/pkg/validation"
)

// Transition records a state change produced by Sync.
type Transition struct {
	Field   string
	From    State
	To      State
	Cleared bool
}

// Toggle is the hidden/visible state machine of one dependent field. It starts
// hidden; Sync moves it to visible when its rule holds and back when it does
// not.
type Toggle struct {
	field  string
	rule   string
	policy Policy
	state  State
}

// NewToggle builds a hidden toggle for field driven by rule.
func NewToggle(field, rule string, policy Policy) *Toggle {
	if policy == "" {
		policy = Clear
	}
	return &Toggle{field: field, rule: rule, policy: policy, state: Hidden}
}

// Field returns the dependent field name.
func (t *Toggle) Field() string { return t.field }

// State returns the current state.
func (t *Toggle) State() State { return t.state }

// Sync re-evaluates the rule against values. On visible -> hidden under the
// Clear policy the dependent value is deleted from values. The second return
// value is false when the state did not change.
func (t *Toggle) Sync(eval Evaluator, values validation.Values, extras map[string]any) (Transition, bool, error) {
	show, err := eval.Eval(t.field, t.rule, Context{Values: values, Extras: extras})
	if err != nil {
		return Transition{}, false, fmt.Errorf("visibility: field %s: %w", t.field, err)
	}

	next := Hidden
	if show {
		next = Visible
	}
	if next == t.state {
		return Transition{}, false, nil
	}

	tr := Transition{Field: t.field, From: t.state, To: next}
	if next == Hidden && t.policy == Clear {
		if _, ok := values[t.field]; ok {
			delete(values, t.field)
			tr.Cleared = true
		}
	}
	t.state = next
	return tr, true, nil
}

// Tracker owns the toggles of one form.
type Tracker struct {
	eval    Evaluator
	toggles map[string]*Toggle
	order   []string
}

// NewTracker builds a toggle per entry in rules (field -> rule).
func NewTracker(eval Evaluator, policy Policy, rules map[string]string) *Tracker {
	t := &Tracker{eval: eval, toggles: make(map[string]*Toggle, len(rules))}
	for field, rule := range rules {
		t.toggles[field] = NewToggle(field, rule, policy)
		t.order = append(t.order, field)
	}
	sort.Strings(t.order)
	return t
}

// Sync re-evaluates every toggle in field-name order.
func (t *Tracker) Sync(values validation.Values, extras map[string]any) ([]Transition, error) {
	var out []Transition
	for _, field := range t.order {
		tr, changed, err := t.toggles[field].Sync(t.eval, values, extras)
		if err != nil {
			return out, err
		}
		if changed {
			out = append(out, tr)
		}
	}
	return out, nil
}

// Visible reports whether field is shown. Fields without a rule are always
// visible.
func (t *Tracker) Visible(field string) bool {
	toggle, ok := t.toggles[field]
	if !ok {
		return true
	}
	return toggle.State() == Visible
}

// Hidden lists the currently hidden dependent fields.
func (t *Tracker) Hidden() []string {
	var out []string
	for _, field := range t.order {
		if t.toggles[field].State() == Hidden {
			out = append(out, field)
		}
	}
	return out
}

// Reset moves every toggle back to hidden without touching values.
func (t *Tracker) Reset() {
	for _, toggle := range t.toggles {
		toggle.state = Hidden
	}
}

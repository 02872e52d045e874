// Package validation evaluates declarative form schemas against the values a
// user has entered so far.
//
// A schema is an ordered slice of Field entries, each carrying exactly one
// Constraint (minLength, numericPositive, requiredChoice, booleanDefault or
// customPredicate). Validate is a pure function of (schema, values): it never
// mutates its inputs, never panics on malformed values and always reports every
// failing field at once. Failures are data (a rejected Result), not errors, so
// callers may re-run Validate after every edit or only on submit and observe
// identical behaviour.
//
// Messages are pongo2 templates rendered with the field name, label, minimum
// length and current value. CELPredicate compiles cross-field rules such as
// "policies is required when hasPolicies is checked" from a CEL expression.
package validation

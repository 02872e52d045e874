// Package forms turns declarative YAML form definitions into validation
// schemas and drives an editing session over them.
//
// A Definition groups fields into tabs. Each field names a constraint kind
// from package validation, an optional visibility rule evaluated by a
// visibility.Evaluator and, for custom predicates, a CEL rule over `values`.
// Compile checks a Definition once; the resulting Form validates value sets,
// skipping fields whose visibility rule does not hold.
//
// Session keeps the in-progress values of one form, the active tab, live
// error messages and the in-flight flag around a submission.Sink.
package forms

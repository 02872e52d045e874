package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-propdash/pkg/validation"
	"github.com/goliatone/go-propdash/pkg/visibility"
	"github.com/goliatone/go-propdash/pkg/visibility/expr"
)

// ErrUnknownField is returned when a value is set for an undeclared field.
var ErrUnknownField = errors.New("forms: unknown field")

// RuleChecker is implemented by evaluators that can validate a rule without
// evaluating it.
type RuleChecker interface {
	Check(rule string) error
}

// CompileOption configures Compile.
type CompileOption func(*compileConfig)

type compileConfig struct {
	sources   map[string][]Option
	evaluator visibility.Evaluator
	policy    visibility.Policy
}

// WithOptionSource binds a named option list referenced by `optionsFrom`.
func WithOptionSource(name string, options []Option) CompileOption {
	return func(cfg *compileConfig) {
		if cfg.sources == nil {
			cfg.sources = make(map[string][]Option)
		}
		cfg.sources[strings.TrimSpace(name)] = append([]Option(nil), options...)
	}
}

// WithEvaluator overrides the visibility rule evaluator.
func WithEvaluator(eval visibility.Evaluator) CompileOption {
	return func(cfg *compileConfig) {
		if eval != nil {
			cfg.evaluator = eval
		}
	}
}

// WithPolicy sets what happens to a dependent value when its field hides.
func WithPolicy(policy visibility.Policy) CompileOption {
	return func(cfg *compileConfig) {
		if policy != "" {
			cfg.policy = policy
		}
	}
}

// Form is a compiled Definition.
type Form struct {
	def       Definition
	fields    []FieldDef
	schema    []validation.Field
	byName    map[string]int
	tabOf     map[string]string
	evaluator visibility.Evaluator
	policy    visibility.Policy
}

// Compile checks def and builds its validation schema. Field names must be
// unique, kinds known, option sources bound and every rule must compile.
func Compile(def Definition, opts ...CompileOption) (*Form, error) {
	cfg := compileConfig{policy: visibility.Clear}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.evaluator == nil {
		cfg.evaluator = expr.New()
	}
	if len(def.Tabs) == 0 {
		return nil, fmt.Errorf("forms: %s: no tabs declared", def.ID)
	}

	form := &Form{
		def:       def,
		byName:    make(map[string]int),
		tabOf:     make(map[string]string),
		evaluator: cfg.evaluator,
		policy:    cfg.policy,
	}
	form.def.Tabs = make([]Tab, len(def.Tabs))
	for i, tab := range def.Tabs {
		tab.Fields = append([]FieldDef(nil), tab.Fields...)
		form.def.Tabs[i] = tab
	}
	tabs := make(map[string]bool, len(def.Tabs))

	for ti := range def.Tabs {
		tab := &form.def.Tabs[ti]
		tab.ID = strings.TrimSpace(tab.ID)
		if tab.ID == "" || tabs[tab.ID] {
			return nil, fmt.Errorf("forms: %s: tab %d has an empty or duplicate id %q", def.ID, ti, tab.ID)
		}
		tabs[tab.ID] = true

		for fi := range tab.Fields {
			field := &tab.Fields[fi]
			field.Name = strings.TrimSpace(field.Name)
			if field.Name == "" {
				return nil, fmt.Errorf("forms: %s: tab %s field %d has no name", def.ID, tab.ID, fi)
			}
			if _, dup := form.byName[field.Name]; dup {
				return nil, fmt.Errorf("forms: %s: duplicate field %q", def.ID, field.Name)
			}

			if source := strings.TrimSpace(field.OptionsFrom); source != "" {
				bound, ok := cfg.sources[source]
				if !ok {
					return nil, fmt.Errorf("forms: %s: field %s: option source %q is not bound", def.ID, field.Name, source)
				}
				field.Options = append([]Option(nil), bound...)
			}
			field.Default = normaliseDefault(field.Default)

			compiled, err := compileField(*field)
			if err != nil {
				return nil, fmt.Errorf("forms: %s: field %s: %w", def.ID, field.Name, err)
			}
			if checker, ok := cfg.evaluator.(RuleChecker); ok {
				if err := checker.Check(field.VisibleWhen); err != nil {
					return nil, fmt.Errorf("forms: %s: field %s: visibleWhen: %w", def.ID, field.Name, err)
				}
			}

			form.byName[field.Name] = len(form.fields)
			form.tabOf[field.Name] = tab.ID
			form.fields = append(form.fields, *field)
			form.schema = append(form.schema, compiled)
		}
	}
	return form, nil
}

func compileField(def FieldDef) (validation.Field, error) {
	kind, err := validation.ParseKind(def.Kind)
	if err != nil {
		return validation.Field{}, err
	}

	var constraint validation.Constraint
	switch kind {
	case validation.KindMinLength:
		constraint = validation.MinLength(def.Min)
	case validation.KindNumericPositive:
		constraint = validation.NumericPositive()
	case validation.KindRequiredChoice:
		constraint = validation.RequiredChoice(optionValues(def.Options)...)
	case validation.KindBooleanDefault:
		constraint = validation.BooleanDefault()
	case validation.KindCustomPredicate:
		pred, err := fieldPredicate(def)
		if err != nil {
			return validation.Field{}, err
		}
		constraint = validation.CustomPredicate(pred)
	}

	return validation.Field{
		Name:       def.Name,
		Label:      def.Label,
		Constraint: constraint,
		Message:    def.Message,
		Optional:   def.Optional,
		Default:    def.Default,
		Sanitize:   def.Sanitize,
	}, nil
}

// fieldPredicate builds the predicate of a customPredicate field: a CEL rule
// when one is declared, otherwise a subset check against the declared options.
func fieldPredicate(def FieldDef) (validation.Predicate, error) {
	if rule := strings.TrimSpace(def.Rule); rule != "" {
		return validation.CELPredicate(rule)
	}
	if len(def.Options) == 0 {
		return nil, nil
	}
	allowed := make(map[string]bool, len(def.Options))
	for _, opt := range def.Options {
		allowed[opt.Value] = true
	}
	name := def.Name
	return func(values validation.Values) bool {
		switch values[name].(type) {
		case nil, []string, []any:
		default:
			return false
		}
		for _, item := range values.Strings(name) {
			if !allowed[item] {
				return false
			}
		}
		return true
	}, nil
}

func optionValues(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		out = append(out, opt.Value)
	}
	return out
}

func normaliseDefault(value any) any {
	items, ok := value.([]any)
	if !ok {
		return value
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

// ID returns the form id.
func (f *Form) ID() string { return f.def.ID }

// Definition returns the compiled definition with bound option sources.
func (f *Form) Definition() Definition { return f.def }

// Fields returns the field declarations in tab order.
func (f *Form) Fields() []FieldDef { return append([]FieldDef(nil), f.fields...) }

// Field looks up a field declaration by name.
func (f *Form) Field(name string) (FieldDef, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return FieldDef{}, false
	}
	return f.fields[idx], true
}

// Schema returns the validation schema of every field.
func (f *Form) Schema() []validation.Field {
	return append([]validation.Field(nil), f.schema...)
}

// Tabs returns the ordered tab ids.
func (f *Form) Tabs() []string {
	out := make([]string, 0, len(f.def.Tabs))
	for _, tab := range f.def.Tabs {
		out = append(out, tab.ID)
	}
	return out
}

// TabFields returns the field names declared on tab.
func (f *Form) TabFields(tab string) ([]string, bool) {
	for _, t := range f.def.Tabs {
		if t.ID != tab {
			continue
		}
		names := make([]string, 0, len(t.Fields))
		for _, field := range t.Fields {
			names = append(names, field.Name)
		}
		return names, true
	}
	return nil, false
}

// TabOf returns the tab that declares field.
func (f *Form) TabOf(field string) string { return f.tabOf[field] }

// Rules returns the visibility rules keyed by dependent field.
func (f *Form) Rules() map[string]string {
	out := make(map[string]string)
	for _, field := range f.fields {
		if rule := strings.TrimSpace(field.VisibleWhen); rule != "" {
			out[field.Name] = rule
		}
	}
	return out
}

// Policy returns the hide policy for dependent values.
func (f *Form) Policy() visibility.Policy { return f.policy }

// Evaluator returns the visibility rule evaluator.
func (f *Form) Evaluator() visibility.Evaluator { return f.evaluator }

// Defaults returns the initial value set: false for boolean fields and the
// declared default elsewhere.
func (f *Form) Defaults() validation.Values {
	out := validation.Values{}
	for _, field := range f.schema {
		switch {
		case field.Constraint.Kind == validation.KindBooleanDefault:
			out[field.Name] = false
		case field.Default != nil:
			out[field.Name] = validation.Values{field.Name: field.Default}.Clone()[field.Name]
		}
	}
	return out
}

// Visible reports whether field is shown for values. Fields without a rule
// are always visible; a rule that fails to evaluate counts as visible so the
// field is still validated.
func (f *Form) Visible(field string, values validation.Values, extras map[string]any) bool {
	def, ok := f.Field(field)
	if !ok || strings.TrimSpace(def.VisibleWhen) == "" {
		return true
	}
	show, err := f.evaluator.Eval(field, def.VisibleWhen, visibility.Context{Values: values, Extras: extras})
	if err != nil {
		return true
	}
	return show
}

// Validate checks values against every visible field. Markup is stripped
// from fields declared with sanitize before any constraint runs, so accepted
// values are exactly what was checked. Hidden fields are not validated; under
// the Clear policy their values are dropped, under Keep they are still
// stripped. Accepted results only carry declared fields.
func (f *Form) Validate(values validation.Values) validation.Result {
	return f.ValidateWith(values, nil)
}

// ValidateWith is Validate with extra visibility inputs.
func (f *Form) ValidateWith(values validation.Values, extras map[string]any) validation.Result {
	working := f.normalise(values)

	schema := make([]validation.Field, 0, len(f.schema))
	for _, field := range f.schema {
		if f.Visible(field.Name, working, extras) {
			schema = append(schema, field)
			continue
		}
		if f.policy == visibility.Clear {
			delete(working, field.Name)
		}
	}

	result := validation.Validate(schema, working)
	if !result.OK() {
		return result
	}

	accepted := result.Values()
	for key := range accepted {
		if _, declared := f.byName[key]; !declared {
			delete(accepted, key)
		}
	}
	return validation.Accepted(accepted)
}

// ValidateFields checks only the named fields, honouring visibility. It
// returns the messages of the failing ones.
func (f *Form) ValidateFields(values validation.Values, names []string) map[string]string {
	working := f.normalise(values)
	failures := make(map[string]string)
	for _, name := range names {
		idx, ok := f.byName[name]
		if !ok || !f.Visible(name, working, nil) {
			continue
		}
		if msg, ok := validation.Check(f.schema[idx], working); !ok {
			failures[name] = msg
		}
	}
	return failures
}

// normalise copies values, coercing boolean fields to bool and option sets
// decoded as []any to []string so rules see consistent types, and strips
// markup from every sanitize field whether visible or not.
func (f *Form) normalise(values validation.Values) validation.Values {
	working := validation.SanitizeValues(f.schema, values)
	if working == nil {
		working = validation.Values{}
	}
	for i, field := range f.schema {
		raw, present := working[field.Name]
		if !present {
			continue
		}
		if field.Constraint.Kind == validation.KindBooleanDefault {
			working[field.Name] = working.Bool(field.Name)
			continue
		}
		if items, isList := raw.([]any); isList && f.fields[i].Multiple() && allStrings(items) {
			working[field.Name] = working.Strings(field.Name)
		}
	}
	return working
}

func allStrings(items []any) bool {
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

package validation

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var defaultMessages = map[Kind]string{
	KindMinLength:       "{{ label }} must be at least {{ min }} characters.",
	KindNumericPositive: "Please enter a valid {{ label|lower }}.",
	KindRequiredChoice:  "Please select a {{ label|lower }}.",
	KindBooleanDefault:  "{{ label }} is invalid.",
	KindCustomPredicate: "{{ label }} is invalid.",
}

// DefaultMessage returns the template used when a field declares none.
func DefaultMessage(kind Kind) string {
	if tpl, ok := defaultMessages[kind]; ok {
		return tpl
	}
	return "{{ label }} is invalid."
}

var (
	templateMu    sync.Mutex
	templateCache = map[string]*pongo2.Template{}
)

func renderMessage(field Field, values Values) string {
	tpl := strings.TrimSpace(field.Message)
	if tpl == "" {
		tpl = DefaultMessage(field.Constraint.Kind)
	}
	if !strings.Contains(tpl, "{{") && !strings.Contains(tpl, "{%") {
		return tpl
	}

	compiled, err := compileTemplate(tpl)
	if err != nil {
		return tpl
	}

	ctx := pongo2.Context{
		"field": field.Name,
		"label": field.DisplayLabel(),
		"min":   field.Constraint.Min,
		"value": values[field.Name],
	}
	out, err := compiled.Execute(ctx)
	if err != nil {
		return tpl
	}
	return strings.TrimSpace(out)
}

func compileTemplate(tpl string) (*pongo2.Template, error) {
	templateMu.Lock()
	defer templateMu.Unlock()

	if compiled, ok := templateCache[tpl]; ok {
		return compiled, nil
	}
	// Messages are plain text; labels such as "Amenities & Policies" must not
	// come back as HTML entities.
	compiled, err := pongo2.FromString("{% autoescape off %}" + tpl + "{% endautoescape %}")
	if err != nil {
		return nil, err
	}
	templateCache[tpl] = compiled
	return compiled, nil
}

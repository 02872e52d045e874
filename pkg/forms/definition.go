package forms

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Option is a selectable value with its display label.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// FieldDef is the declared shape of one form field.
type FieldDef struct {
	Name        string   `yaml:"name" json:"name"`
	Label       string   `yaml:"label" json:"label"`
	Kind        string   `yaml:"kind" json:"kind"`
	Min         int      `yaml:"min,omitempty" json:"min,omitempty"`
	Options     []Option `yaml:"options,omitempty" json:"options,omitempty"`
	OptionsFrom string   `yaml:"optionsFrom,omitempty" json:"optionsFrom,omitempty"`
	Message     string   `yaml:"message,omitempty" json:"message,omitempty"`
	Rule        string   `yaml:"rule,omitempty" json:"rule,omitempty"`
	VisibleWhen string   `yaml:"visibleWhen,omitempty" json:"visibleWhen,omitempty"`
	Input       string   `yaml:"input,omitempty" json:"input,omitempty"`
	Placeholder string   `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
	Help        string   `yaml:"help,omitempty" json:"help,omitempty"`
	Optional    bool     `yaml:"optional,omitempty" json:"optional,omitempty"`
	Sanitize    bool     `yaml:"sanitize,omitempty" json:"sanitize,omitempty"`
	Default     any      `yaml:"default,omitempty" json:"default,omitempty"`
}

// InputType returns the declared widget, defaulting to a text input.
func (f FieldDef) InputType() string {
	if input := strings.TrimSpace(f.Input); input != "" {
		return input
	}
	return "text"
}

// Multiple reports whether the field holds a string set.
func (f FieldDef) Multiple() bool {
	return f.InputType() == "checkboxes"
}

// OptionLabel returns the label declared for value, or value itself.
func (f FieldDef) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value {
			if opt.Label != "" {
				return opt.Label
			}
			break
		}
	}
	return value
}

// Tab is an ordered group of fields.
type Tab struct {
	ID     string     `yaml:"id" json:"id"`
	Label  string     `yaml:"label" json:"label"`
	Fields []FieldDef `yaml:"fields" json:"fields"`
}

// Definition is the declaration of one form.
type Definition struct {
	ID             string `yaml:"id" json:"id"`
	Title          string `yaml:"title" json:"title"`
	Description    string `yaml:"description,omitempty" json:"description,omitempty"`
	SuccessMessage string `yaml:"successMessage,omitempty" json:"successMessage,omitempty"`
	Tabs           []Tab  `yaml:"tabs" json:"tabs"`
}

// ParseDefinition decodes a single YAML definition. Unknown keys are
// rejected so typos in declarations surface at load time.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("forms: decode definition: %w", err)
	}
	def.ID = strings.TrimSpace(def.ID)
	if def.ID == "" {
		return Definition{}, fmt.Errorf("forms: definition is missing an id")
	}
	return def, nil
}

// Fields returns every field in tab order.
func (d Definition) Fields() []FieldDef {
	var out []FieldDef
	for _, tab := range d.Tabs {
		out = append(out, tab.Fields...)
	}
	return out
}

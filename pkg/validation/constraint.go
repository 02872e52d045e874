package validation

import (
	"fmt"
	"strings"
)

// Kind identifies the constraint variant attached to a field.
type Kind string

const (
	KindMinLength       Kind = "minLength"
	KindNumericPositive Kind = "numericPositive"
	KindRequiredChoice  Kind = "requiredChoice"
	KindBooleanDefault  Kind = "booleanDefault"
	KindCustomPredicate Kind = "customPredicate"
)

// ParseKind resolves a declared constraint name. Matching ignores case and
// surrounding whitespace so YAML declarations can use either style.
func ParseKind(raw string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "minlength":
		return KindMinLength, nil
	case "numericpositive":
		return KindNumericPositive, nil
	case "requiredchoice":
		return KindRequiredChoice, nil
	case "booleandefault":
		return KindBooleanDefault, nil
	case "custompredicate":
		return KindCustomPredicate, nil
	default:
		return "", fmt.Errorf("validation: unknown constraint kind %q", raw)
	}
}

// Predicate is a caller-supplied rule evaluated against the full value set.
type Predicate func(Values) bool

// Constraint is a tagged variant: Kind selects which parameters apply.
type Constraint struct {
	Kind      Kind
	Min       int
	Options   []string
	Predicate Predicate
}

// MinLength requires a string whose trimmed length is at least n runes.
func MinLength(n int) Constraint {
	if n < 0 {
		n = 0
	}
	return Constraint{Kind: KindMinLength, Min: n}
}

// NumericPositive requires a string that parses as a number greater than zero.
func NumericPositive() Constraint {
	return Constraint{Kind: KindNumericPositive}
}

// RequiredChoice requires a non-empty string drawn from options. An empty
// option set accepts any non-empty string.
func RequiredChoice(options ...string) Constraint {
	return Constraint{Kind: KindRequiredChoice, Options: append([]string(nil), options...)}
}

// BooleanDefault always passes and fills false when the value is absent.
func BooleanDefault() Constraint {
	return Constraint{Kind: KindBooleanDefault}
}

// CustomPredicate fails when fn returns false. A nil fn always passes.
func CustomPredicate(fn Predicate) Constraint {
	return Constraint{Kind: KindCustomPredicate, Predicate: fn}
}

// RequiredWhen builds the conditional requirement predicate: field must hold at
// least minLen trimmed characters, but only while flag is true.
func RequiredWhen(flag, field string, minLen int) Predicate {
	if minLen < 1 {
		minLen = 1
	}
	return func(values Values) bool {
		if !values.Bool(flag) {
			return true
		}
		text, ok := values.String(field)
		if !ok {
			return false
		}
		return runeLen(strings.TrimSpace(text)) >= minLen
	}
}

// Field declares one named entry in a form schema.
type Field struct {
	Name       string
	Label      string
	Constraint Constraint
	// Message is a pongo2 template; empty selects the default for the kind.
	Message string
	// Optional fields pass when their value is absent or blank.
	Optional bool
	// Default is copied into accepted values when the field is absent.
	Default any
	// Sanitize strips markup from the accepted string value.
	Sanitize bool
}

// DisplayLabel returns the label used in messages.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Name
}

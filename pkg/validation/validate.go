package validation

import (
	"math"
	"strconv"
	"strings"
)

// Validate evaluates every field of schema against values and returns either
// an Accepted result with defaults filled in or a Rejected result listing each
// failing field. Fields are checked independently; a field's own constraint is
// the only thing that can put it in the rejection map.
func Validate(schema []Field, values Values) Result {
	failures := make(map[string]string)
	for _, field := range schema {
		if field.Name == "" {
			continue
		}
		if passes(field, values) {
			continue
		}
		failures[field.Name] = renderMessage(field, values)
	}

	if len(failures) > 0 {
		return Rejected(failures)
	}
	return Accepted(complete(schema, values))
}

// Check evaluates a single field. It is what Validate runs per field and is
// exported so live-validation callers can refresh one message at a time.
func Check(field Field, values Values) (string, bool) {
	if passes(field, values) {
		return "", true
	}
	return renderMessage(field, values), false
}

func passes(field Field, values Values) bool {
	value, present := values[field.Name]
	if field.Optional && (!present || isBlank(value)) && field.Constraint.Kind != KindCustomPredicate {
		return true
	}

	c := field.Constraint
	switch c.Kind {
	case KindMinLength:
		text, ok := values.String(field.Name)
		if !ok {
			return false
		}
		return runeLen(strings.TrimSpace(text)) >= c.Min
	case KindNumericPositive:
		n, ok := parseNumber(value)
		return ok && n > 0
	case KindRequiredChoice:
		choice, ok := values.String(field.Name)
		if !ok || strings.TrimSpace(choice) == "" {
			return false
		}
		if len(c.Options) == 0 {
			return true
		}
		for _, option := range c.Options {
			if option == choice {
				return true
			}
		}
		return false
	case KindBooleanDefault:
		return true
	case KindCustomPredicate:
		return evalPredicate(c.Predicate, values)
	default:
		return false
	}
}

// evalPredicate runs a caller predicate on a private copy; a panicking
// predicate counts as a failure.
func evalPredicate(fn Predicate, values Values) (ok bool) {
	if fn == nil {
		return true
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return fn(values.Clone())
}

func parseNumber(value any) (float64, bool) {
	var n float64
	switch typed := value.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	case float64:
		n = typed
	case float32:
		n = float64(typed)
	case int:
		n = float64(typed)
	case int64:
		n = float64(typed)
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func complete(schema []Field, values Values) Values {
	out := values.Clone()
	for _, field := range schema {
		if field.Name == "" {
			continue
		}
		current, present := out[field.Name]
		if field.Constraint.Kind == KindBooleanDefault {
			b, _ := coerceBool(current)
			out[field.Name] = b
			continue
		}
		if (!present || current == nil) && field.Default != nil {
			out[field.Name] = deepCopy(field.Default)
		}
	}
	return out
}

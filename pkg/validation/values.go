package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Values maps field names to their current value: a string, a string set
// ([]string) or a bool. Values decoded from JSON may also carry []any or
// float64; the accessors normalise those.
type Values map[string]any

// Clone returns a deep copy so callers can mutate the result freely.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = deepCopy(value)
	}
	return out
}

// String returns the string stored under name.
func (v Values) String(name string) (string, bool) {
	raw, ok := v[name]
	if !ok || raw == nil {
		return "", false
	}
	switch typed := raw.(type) {
	case string:
		return typed, true
	case []byte:
		return string(typed), true
	case fmt.Stringer:
		return typed.String(), true
	default:
		return "", false
	}
}

// Bool reports the boolean stored under name; strings such as "true" or "on"
// are accepted, anything else is false.
func (v Values) Bool(name string) bool {
	b, _ := coerceBool(v[name])
	return b
}

// Strings returns the string set stored under name.
func (v Values) Strings(name string) []string {
	switch typed := v[name].(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil
		}
		return []string{typed}
	default:
		return nil
	}
}

func isBlank(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	default:
		return false
	}
}

func coerceBool(value any) (bool, bool) {
	switch typed := value.(type) {
	case nil:
		return false, false
	case bool:
		return typed, true
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "on", "yes":
			return true, true
		case "off", "no", "":
			return false, true
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case []string:
		if typed == nil {
			return typed
		}
		clone := make([]string, len(typed))
		copy(clone, typed)
		return clone
	case []any:
		if typed == nil {
			return typed
		}
		clone := make([]any, len(typed))
		for i, item := range typed {
			clone[i] = deepCopy(item)
		}
		return clone
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, item := range typed {
			clone[k] = deepCopy(item)
		}
		return clone
	default:
		return typed
	}
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

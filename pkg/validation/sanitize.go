package validation

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeText strips every tag from raw and trims the result. Entities the
// policy escapes are decoded again so plain text round-trips unchanged.
func SanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// SanitizeValues returns a copy of values where every string field declared
// with Sanitize has its markup removed.
func SanitizeValues(schema []Field, values Values) Values {
	out := values.Clone()
	for _, field := range schema {
		if !field.Sanitize {
			continue
		}
		if text, ok := out[field.Name].(string); ok {
			out[field.Name] = SanitizeText(text)
		}
	}
	return out
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

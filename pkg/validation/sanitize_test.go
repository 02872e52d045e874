package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-propdash/pkg/validation"
)

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"":                                  "",
		"  plain text ":                     "plain text",
		"<b>Bold</b> move":                  "Bold move",
		"<script>alert(1)</script>Lobby":    "Lobby",
		"Check-in after 3pm & before 10pm.": "Check-in after 3pm & before 10pm.",
	}
	for in, want := range cases {
		if got := validation.SanitizeText(in); got != want {
			t.Fatalf("SanitizeText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeValues_OnlyFlaggedFields(t *testing.T) {
	schema := []validation.Field{
		{Name: "description", Sanitize: true},
		{Name: "name"},
	}
	in := validation.Values{"description": "<i>Sea</i> view", "name": "<i>Raw</i>"}

	got := validation.SanitizeValues(schema, in)
	want := validation.Values{"description": "Sea view", "name": "<i>Raw</i>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitized values mismatch (-want +got):\n%s", diff)
	}
	if in["description"] != "<i>Sea</i> view" {
		t.Fatalf("input mutated: %v", in)
	}
}

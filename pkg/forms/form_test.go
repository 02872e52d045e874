package forms_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-propdash/pkg/forms"
	"github.com/goliatone/go-propdash/pkg/validation"
	"github.com/goliatone/go-propdash/pkg/visibility"
)

var sampleProperties = []forms.Option{
	{Value: "1", Label: "Beach Resort"},
	{Value: "2", Label: "Mountain Villa"},
}

func loadRegistry(t *testing.T, opts ...forms.CompileOption) *forms.Registry {
	t.Helper()
	opts = append([]forms.CompileOption{forms.WithOptionSource("properties", sampleProperties)}, opts...)
	reg, err := forms.Default(opts...)
	if err != nil {
		t.Fatalf("load default forms: %v", err)
	}
	return reg
}

func mustForm(t *testing.T, reg *forms.Registry, id string) *forms.Form {
	t.Helper()
	form, err := reg.Form(id)
	if err != nil {
		t.Fatalf("form %s: %v", id, err)
	}
	return form
}

func validProperty() validation.Values {
	return validation.Values{
		"name":         "Oceanview Resort",
		"type":         "resort",
		"description":  "A quiet resort right on the beach with sea views.",
		"checkInTime":  "14:00",
		"checkOutTime": "11:00",
		"address":      "123 Ocean Drive",
		"city":         "Miami",
		"state":        "Florida",
		"zip":          "33139",
		"country":      "United States",
		"amenities":    []any{"pool", "wifi"},
	}
}

func TestDefault_RegistersBuiltInForms(t *testing.T) {
	reg := loadRegistry(t)
	if diff := cmp.Diff([]string{"profile", "property", "room"}, reg.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	property := mustForm(t, reg, "property")
	if diff := cmp.Diff([]string{"details", "location", "amenities"}, property.Tabs()); diff != "" {
		t.Fatalf("tabs mismatch (-want +got):\n%s", diff)
	}
	details, _ := property.TabFields("details")
	want := []string{"name", "type", "description", "checkInTime", "checkOutTime"}
	if diff := cmp.Diff(want, details); diff != "" {
		t.Fatalf("details fields mismatch (-want +got):\n%s", diff)
	}

	room := mustForm(t, reg, "room")
	field, ok := room.Field("property")
	if !ok || len(field.Options) != len(sampleProperties) {
		t.Fatalf("expected bound property options, got %+v", field.Options)
	}
}

func TestDefault_UnboundOptionSource(t *testing.T) {
	if _, err := forms.Default(); err == nil || !strings.Contains(err.Error(), "properties") {
		t.Fatalf("expected unbound source error, got %v", err)
	}
}

func TestRegistry_UnknownForm(t *testing.T) {
	_, err := loadRegistry(t).Form("invoice")
	if err == nil || !strings.Contains(err.Error(), "unknown form") {
		t.Fatalf("expected unknown form error, got %v", err)
	}
}

func TestLoadFS_RejectsBadDefinitions(t *testing.T) {
	cases := map[string]string{
		"unknown kind": `
id: broken
tabs:
  - id: main
    fields:
      - { name: a, kind: regex }
`,
		"duplicate field": `
id: broken
tabs:
  - id: main
    fields:
      - { name: a, kind: minLength, min: 1 }
      - { name: a, kind: minLength, min: 1 }
`,
		"bad visibility rule": `
id: broken
tabs:
  - id: main
    fields:
      - { name: a, kind: minLength, min: 1, visibleWhen: "b ==" }
`,
		"bad cel rule": `
id: broken
tabs:
  - id: main
    fields:
      - { name: a, kind: customPredicate, rule: "values.a +" }
`,
		"unknown key": `
id: broken
tabs:
  - id: main
    fields:
      - { name: a, kind: minLength, minimum: 1 }
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"broken.yaml": {Data: []byte(doc)}}
			if _, err := forms.LoadFS(fsys); err == nil {
				t.Fatalf("expected load error")
			}
		})
	}
}

func TestPropertyForm_AcceptsValidValues(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "property")

	values := validProperty()
	values["description"] = "<b>A quiet resort</b> right on the beach with sea views."
	values["hasPolicies"] = false
	values["policies"] = "leftover text"
	values["unexpected"] = "dropped"

	result := form.Validate(values)
	if !result.OK() {
		t.Fatalf("expected acceptance, got %v", result.Errors())
	}

	got := result.Values()
	if got["description"] != "A quiet resort right on the beach with sea views." {
		t.Fatalf("expected markup stripped, got %q", got["description"])
	}
	if _, ok := got["policies"]; ok {
		t.Fatalf("expected hidden policies to be dropped")
	}
	if _, ok := got["unexpected"]; ok {
		t.Fatalf("expected undeclared key to be dropped")
	}
	if diff := cmp.Diff([]string{"pool", "wifi"}, got["amenities"]); diff != "" {
		t.Fatalf("amenities mismatch (-want +got):\n%s", diff)
	}
	if got["hasPolicies"] != false {
		t.Fatalf("expected hasPolicies=false, got %#v", got["hasPolicies"])
	}
}

func TestPropertyForm_RequiresPoliciesOnlyWhenChecked(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "property")

	values := validProperty()
	values["hasPolicies"] = true
	result := form.Validate(values)
	if diff := cmp.Diff(map[string]string{"policies": "Please describe your property policies."}, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	values["policies"] = "No pets allowed."
	if result := form.Validate(values); !result.OK() {
		t.Fatalf("expected acceptance, got %v", result.Errors())
	}

	values["hasPolicies"] = "false"
	values["policies"] = ""
	if result := form.Validate(values); !result.OK() {
		t.Fatalf("expected unchecked flag to skip policies, got %v", result.Errors())
	}
}

func TestPropertyForm_KeepPolicyRetainsHiddenValue(t *testing.T) {
	form := mustForm(t, loadRegistry(t, forms.WithPolicy(visibility.Keep)), "property")

	values := validProperty()
	values["policies"] = "kept"
	result := form.Validate(values)
	if !result.OK() {
		t.Fatalf("expected acceptance, got %v", result.Errors())
	}
	if result.Values()["policies"] != "kept" {
		t.Fatalf("expected hidden value to be kept")
	}
}

func TestPropertyForm_KeepPolicyStripsHiddenMarkup(t *testing.T) {
	form := mustForm(t, loadRegistry(t, forms.WithPolicy(visibility.Keep)), "property")

	values := validProperty()
	values["hasPolicies"] = false
	values["policies"] = "<script>steal()</script>No pets<img src=x onerror=alert(1)>"
	result := form.Validate(values)
	if !result.OK() {
		t.Fatalf("expected acceptance, got %v", result.Errors())
	}
	if got := result.Values()["policies"]; got != "No pets" {
		t.Fatalf("hidden policies = %q, want markup stripped", got)
	}
}

func TestPropertyForm_RejectsMarkupOnlyText(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "property")

	values := validProperty()
	values["description"] = "<script>alert('xss')</script>"
	values["hasPolicies"] = true
	values["policies"] = "<b></b>"

	result := form.Validate(values)
	if result.OK() {
		t.Fatalf("expected rejection, accepted %v", result.Values())
	}
	want := map[string]string{
		"description": "Description must be at least 20 characters.",
		"policies":    "Please describe your property policies.",
	}
	if diff := cmp.Diff(want, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertyForm_AcceptedValuesRevalidate(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "property")

	values := validProperty()
	values["description"] = "<p>A quiet resort <b>right on the beach</b> with sea views.</p>"
	values["hasPolicies"] = true
	values["policies"] = "<i>No smoking indoors.</i>"

	first := form.Validate(values)
	if !first.OK() {
		t.Fatalf("expected acceptance, got %v", first.Errors())
	}
	if got := first.Values()["policies"]; got != "No smoking indoors." {
		t.Fatalf("policies = %q", got)
	}
	second := form.Validate(first.Values())
	if !second.OK() {
		t.Fatalf("accepted values failed a second check: %v", second.Errors())
	}
	if diff := cmp.Diff(first.Values(), second.Values()); diff != "" {
		t.Fatalf("second pass changed values (-first +second):\n%s", diff)
	}
}

func TestPropertyForm_ReportsDeclaredMessages(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "property")

	values := validProperty()
	values["name"] = "ab"
	values["type"] = "castle"
	values["amenities"] = []any{"pool", "helipad"}

	want := map[string]string{
		"name":      "Property name must be at least 3 characters.",
		"type":      "Please select a property type.",
		"amenities": "Please choose amenities from the list.",
	}
	if diff := cmp.Diff(want, form.Validate(values).Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestRoomForm_Validation(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "room")

	values := validation.Values{
		"property":     "2",
		"roomName":     "Deluxe Ocean View",
		"roomType":     "deluxe",
		"price":        "-5",
		"capacity":     "abc",
		"availability": "available",
		"description":  "Spacious room with balcony.",
	}
	want := map[string]string{
		"price":    "Please enter a valid price amount.",
		"capacity": "Please enter a valid capacity.",
	}
	if diff := cmp.Diff(want, form.Validate(values).Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	values["price"] = "199"
	values["capacity"] = "2"
	result := form.Validate(values)
	if !result.OK() {
		t.Fatalf("expected acceptance, got %v", result.Errors())
	}
	if diff := cmp.Diff([]string{}, result.Values()["amenities"]); diff != "" {
		t.Fatalf("expected default amenities (-want +got):\n%s", diff)
	}

	values["property"] = "9"
	if msg, _ := form.Validate(values).Error("property"); msg != "Please select a property." {
		t.Fatalf("expected unknown property to be rejected, got %q", msg)
	}
}

func TestProfileForm_DefaultsAreValid(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "profile")
	want := validation.Values{
		"firstName":      "John",
		"lastName":       "Doe",
		"email":          "john.doe@example.com",
		"phone":          "+1 (555) 123-4567",
		"company":        "Doe Properties LLC",
		"changePassword": false,
		"plan":           "pro",
		"notifyEmail":    []string{},
		"notifySms":      []string{},
	}
	if diff := cmp.Diff(want, form.Defaults()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"general", "security", "billing", "notifications"}, form.Tabs()); diff != "" {
		t.Fatalf("tabs mismatch (-want +got):\n%s", diff)
	}

	result := form.Validate(form.Defaults())
	if !result.OK() {
		t.Fatalf("expected defaults to validate, got %v", result.Errors())
	}
	if _, ok := result.Values()["newPassword"]; ok {
		t.Fatalf("hidden password fields should not be accepted: %v", result.Values())
	}
}

func TestProfileForm_PasswordChange(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "profile")
	values := form.Defaults()
	values["changePassword"] = true
	values["currentPassword"] = "old-secret"
	values["newPassword"] = "short"
	values["confirmPassword"] = "different"

	result := form.Validate(values)
	want := map[string]string{
		"newPassword":     "New password must be at least 8 characters.",
		"confirmPassword": "Passwords do not match.",
	}
	if diff := cmp.Diff(want, result.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	values["newPassword"] = "longpassword"
	values["confirmPassword"] = "longpassword"
	if result := form.Validate(values); !result.OK() {
		t.Fatalf("expected acceptance, got %v", result.Errors())
	}
}

func TestProfileForm_RejectsMalformedEmail(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "profile")
	for _, email := range []string{"", "john.doe", "john@localhost", "a b@example.com", "<b></b>"} {
		values := form.Defaults()
		values["email"] = email
		if msg, _ := form.Validate(values).Error("email"); msg != "Please enter a valid email address." {
			t.Fatalf("email %q: expected rejection, got %q", email, msg)
		}
	}
}

func TestForm_Defaults(t *testing.T) {
	form := mustForm(t, loadRegistry(t), "property")
	want := validation.Values{"amenities": []string{}, "hasPolicies": false}
	if diff := cmp.Diff(want, form.Defaults()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_DoesNotMutateDefinition(t *testing.T) {
	def := forms.Definition{
		ID: "inline",
		Tabs: []forms.Tab{{ID: " main ", Fields: []forms.FieldDef{
			{Name: " title ", Kind: "minLength", Min: 2},
		}}},
	}
	form, err := forms.Compile(def)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, ok := form.Field("title"); !ok {
		t.Fatalf("expected trimmed field name")
	}
	if def.Tabs[0].Fields[0].Name != " title " {
		t.Fatalf("caller definition mutated")
	}
}

package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-propdash/pkg/forms"
	"github.com/goliatone/go-propdash/pkg/orders"
	"github.com/goliatone/go-propdash/pkg/submission"
	"github.com/goliatone/go-propdash/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	passwordPos  int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passwordPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passwordPos]
	s.passwordPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return 0, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func propertySession(t *testing.T) *forms.Session {
	t.Helper()
	return formSession(t, "property")
}

func formSession(t *testing.T, id string) *forms.Session {
	t.Helper()
	reg, err := forms.Default(forms.WithOptionSource("properties", orders.PropertyOptions()))
	if err != nil {
		t.Fatalf("load forms: %v", err)
	}
	form, err := reg.Form(id)
	if err != nil {
		t.Fatalf("%s form: %v", id, err)
	}
	sink := submission.NewSimulated(
		submission.WithDelay(0),
		submission.WithIDGenerator(func() string { return "rcpt-1" }),
	)
	return forms.NewSession(form, sink)
}

func TestIntakeRunSubmitsProperty(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			"Ab", "Oceanview Resort",
			"15:00", "11:00",
			"123 Ocean Drive", "Miami", "Florida", "33139", "United States",
		},
		selectIdx: []int{0},
		textAreas: []string{"A quiet seaside resort with ocean views.", "No smoking indoors."},
		multiIdx:  [][]int{{0, 5}},
		confirm:   []bool{true},
	}

	intake := New(WithPromptDriver(driver))
	outcome, err := intake.Run(context.Background(), propertySession(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !outcome.Submitted() {
		t.Fatalf("expected submission, got errors %v", outcome.Result.Errors())
	}
	if outcome.Receipt.ID != "rcpt-1" {
		t.Fatalf("unexpected receipt id %q", outcome.Receipt.ID)
	}

	want := validation.Values{
		"name":         "Oceanview Resort",
		"type":         "hotel",
		"description":  "A quiet seaside resort with ocean views.",
		"checkInTime":  "15:00",
		"checkOutTime": "11:00",
		"address":      "123 Ocean Drive",
		"city":         "Miami",
		"state":        "Florida",
		"zip":          "33139",
		"country":      "United States",
		"amenities":    []string{"pool", "wifi"},
		"hasPolicies":  true,
		"policies":     "No smoking indoors.",
	}
	if diff := cmp.Diff(want, outcome.Receipt.Values); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{
		"Add New Property",
		"== Details",
		"! Property name must be at least 3 characters.",
		"== Location",
		"== Amenities & Policies",
		"✓ Property added successfully!",
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestIntakeSkipsHiddenPolicies(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{
			"Villa Sol", "14:00", "10:00",
			"1 Sunset Road", "Ibiza", "Balearic", "07800", "Spain",
		},
		selectIdx: []int{1},
		textAreas: []string{"Whitewashed villa above the bay with a private pool."},
		multiIdx:  [][]int{{}},
		confirm:   []bool{false},
	}

	outcome, err := New(WithPromptDriver(driver)).Run(context.Background(), propertySession(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !outcome.Submitted() {
		t.Fatalf("expected submission, got errors %v", outcome.Result.Errors())
	}
	if driver.textPos != 1 {
		t.Fatalf("expected only the description textarea, got %d prompts", driver.textPos)
	}
	if _, ok := outcome.Receipt.Values["policies"]; ok {
		t.Fatalf("policies should not be submitted when hidden: %v", outcome.Receipt.Values)
	}
	if diff := cmp.Diff([]string{}, outcome.Receipt.Values["amenities"]); diff != "" {
		t.Fatalf("amenities mismatch (-want +got):\n%s", diff)
	}
}

func TestIntakeProfileReadsPasswordsWithoutEcho(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Jane", "Doe", "jane@example.com", "", ""},
		confirm:   []bool{true},
		passwords: []string{"old-secret", "longpassword", "longpasword", "longpassword"},
		selectIdx: []int{2},
		multiIdx:  [][]int{{0, 3}, {}},
	}

	outcome, err := New(WithPromptDriver(driver)).Run(context.Background(), formSession(t, "profile"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !outcome.Submitted() {
		t.Fatalf("expected submission, got errors %v", outcome.Result.Errors())
	}
	if driver.inputPos != 5 {
		t.Fatalf("passwords must not go through Input, got %d inputs", driver.inputPos)
	}

	got := outcome.Receipt.Values
	if got["newPassword"] != "longpassword" || got["confirmPassword"] != "longpassword" {
		t.Fatalf("unexpected passwords: %v", got)
	}
	if got["plan"] != "enterprise" {
		t.Fatalf("unexpected plan %v", got["plan"])
	}
	if diff := cmp.Diff([]string{"newBookings", "systemAlerts"}, got["notifyEmail"]); diff != "" {
		t.Fatalf("notifyEmail mismatch (-want +got):\n%s", diff)
	}

	var mismatch bool
	for _, msg := range driver.infoMessages {
		if msg == DefaultTheme.ErrorPrefix+"Passwords do not match." {
			mismatch = true
		}
	}
	if !mismatch {
		t.Fatalf("expected a mismatch message, got %v", driver.infoMessages)
	}
}

func TestIntakeStopsAfterMaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"a", "b", "c"}}

	_, err := New(WithPromptDriver(driver), WithMaxAttempts(2)).Run(context.Background(), propertySession(t))
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if driver.inputPos != 2 {
		t.Fatalf("expected 2 attempts, got %d", driver.inputPos)
	}
}

func TestIntakePropagatesAbort(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}

	_, err := New(WithPromptDriver(driver)).Run(context.Background(), propertySession(t))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestIntakeEncode(t *testing.T) {
	values := validation.Values{
		"name":      "Villa Sol",
		"amenities": []string{"pool", "wifi"},
		"price":     120,
	}

	tests := []struct {
		format      OutputFormat
		want        string
		contentType string
	}{
		{OutputFormatJSON, `{"amenities":["pool","wifi"],"name":"Villa Sol","price":120}`, "application/json"},
		{OutputFormatFormURLEncoded, "amenities%5B%5D=pool&amenities%5B%5D=wifi&name=Villa+Sol&price=120", "application/x-www-form-urlencoded"},
		{OutputFormatPrettyText, "amenities=pool, wifi\nname=Villa Sol\nprice=120\n", "text/plain"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			intake := New(WithPromptDriver(&stubDriver{}), WithOutputFormat(tt.format))
			got, err := intake.Encode(values)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Fatalf("payload mismatch (-want +got):\n%s", diff)
			}
			if intake.ContentType() != tt.contentType {
				t.Fatalf("content type = %q, want %q", intake.ContentType(), tt.contentType)
			}
		})
	}
}

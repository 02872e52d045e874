package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-propdash/pkg/forms"
	"github.com/goliatone/go-propdash/pkg/validation"
)

const defaultMaxAttempts = 5

// Intake walks a form session tab by tab in the terminal. Each answer is
// stored in the session and checked immediately; a failing answer prints the
// field message and asks again. Fields hidden by their visibility rule are
// skipped.
type Intake struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	maxAttempts  int
	logger       *zap.Logger
}

// New constructs an intake with defaults (survey driver, JSON output).
func New(options ...Option) *Intake {
	in := &Intake{
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme,
		maxAttempts:  defaultMaxAttempts,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(in)
	}
	if in.driver == nil {
		in.driver = NewSurveyDriver(nil)
	}
	return in
}

// ContentType reports the serialization format used by Encode.
func (in *Intake) ContentType() string {
	switch in.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Run prompts every visible field and submits the session.
func (in *Intake) Run(ctx context.Context, session *forms.Session) (forms.Outcome, error) {
	if ctx == nil {
		return forms.Outcome{}, errors.New("tui: context is required")
	}
	if session == nil {
		return forms.Outcome{}, errors.New("tui: session is required")
	}

	def := session.Form().Definition()
	if err := in.info(ctx, in.theme.InfoPrefix+def.Title); err != nil {
		return forms.Outcome{}, err
	}

	for _, tab := range def.Tabs {
		if err := session.SetTab(tab.ID); err != nil {
			return forms.Outcome{}, err
		}
		if err := in.info(ctx, in.theme.TabPrefix+tab.Label); err != nil {
			return forms.Outcome{}, err
		}
		for _, field := range tab.Fields {
			if !session.Visible(field.Name) {
				continue
			}
			if err := in.promptField(ctx, session, field); err != nil {
				return forms.Outcome{}, err
			}
		}
	}

	outcome, err := session.Submit(ctx)
	if err != nil {
		return outcome, err
	}
	if !outcome.Result.OK() {
		for _, issue := range outcome.Result.Issues() {
			if err := in.info(ctx, in.theme.ErrorPrefix+issue.Message); err != nil {
				return outcome, err
			}
		}
		return outcome, nil
	}

	in.logger.Info("intake submitted", zap.String("form", def.ID), zap.String("receipt", outcome.Receipt.ID))
	if outcome.Message != "" {
		if err := in.info(ctx, in.theme.SuccessPrefix+outcome.Message); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

func (in *Intake) promptField(ctx context.Context, session *forms.Session, field forms.FieldDef) error {
	for attempt := 1; ; attempt++ {
		value, err := in.ask(ctx, session.Values(), field)
		if err != nil {
			return err
		}
		if _, err := session.Set(field.Name, value); err != nil {
			return err
		}

		failures := session.Form().ValidateFields(session.Values(), []string{field.Name})
		msg, failed := failures[field.Name]
		if !failed {
			return nil
		}
		in.logger.Debug("field rejected", zap.String("field", field.Name), zap.Int("attempt", attempt))
		if err := in.info(ctx, in.theme.ErrorPrefix+msg); err != nil {
			return err
		}
		if in.maxAttempts > 0 && attempt >= in.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
		}
	}
}

func (in *Intake) ask(ctx context.Context, current validation.Values, field forms.FieldDef) (any, error) {
	message := displayLabel(field)

	switch field.InputType() {
	case "radio", "select":
		labels := optionLabels(field.Options)
		choice, _ := current.String(field.Name)
		idx, err := in.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: optionIndex(field.Options, choice),
			Help:         field.Help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil

	case "checkboxes":
		selected := current.Strings(field.Name)
		defaults := make([]int, 0, len(selected))
		for _, value := range selected {
			if idx := optionIndex(field.Options, value); idx >= 0 {
				defaults = append(defaults, idx)
			}
		}
		indices, err := in.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  optionLabels(field.Options),
			Defaults: defaults,
			Help:     field.Help,
		})
		if err != nil {
			return nil, err
		}
		values := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				values = append(values, field.Options[idx].Value)
			}
		}
		return values, nil

	case "checkbox":
		return in.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: current.Bool(field.Name),
			Help:    field.Help,
		})

	case "textarea":
		text, _ := current.String(field.Name)
		return in.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: text,
			Help:    displayHelp(field),
		})

	case "password":
		return in.driver.Password(ctx, InputConfig{
			Message: message,
			Help:    field.Help,
		})

	default:
		text, _ := current.String(field.Name)
		return in.driver.Input(ctx, InputConfig{
			Message:     message,
			Default:     text,
			Help:        displayHelp(field),
			Placeholder: field.Placeholder,
		})
	}
}

func (in *Intake) info(ctx context.Context, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	return in.driver.Info(ctx, msg)
}

// Encode serializes accepted values in the configured output format.
func (in *Intake) Encode(values validation.Values) ([]byte, error) {
	switch in.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func displayLabel(field forms.FieldDef) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.Name
	}
	if field.Optional {
		label += " (optional)"
	}
	return label
}

func displayHelp(field forms.FieldDef) string {
	if help := strings.TrimSpace(field.Help); help != "" {
		return help
	}
	if field.Placeholder != "" {
		return "e.g. " + field.Placeholder
	}
	return ""
}

func optionLabels(options []forms.Option) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		out = append(out, label)
	}
	return out
}

func optionIndex(options []forms.Option, value string) int {
	for i, opt := range options {
		if opt.Value == value {
			return i
		}
	}
	return -1
}

func sortedKeys(values validation.Values) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func flattenForm(values validation.Values) string {
	out := url.Values{}
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case []string:
			for _, item := range v {
				out.Add(key+"[]", item)
			}
		case []any:
			for _, item := range v {
				out.Add(key+"[]", fmt.Sprint(item))
			}
		default:
			out.Set(key, fmt.Sprint(v))
		}
	}
	return out.Encode()
}

func prettyPrint(values validation.Values) string {
	var b strings.Builder
	for _, key := range sortedKeys(values) {
		switch v := values[key].(type) {
		case []string:
			fmt.Fprintf(&b, "%s=%s\n", key, strings.Join(v, ", "))
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}

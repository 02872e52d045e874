package tui

import "go.uber.org/zap"

// OutputFormat controls how accepted values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the intake applies when printing
// messages.
type Theme struct {
	TabPrefix     string
	InfoPrefix    string
	ErrorPrefix   string
	SuccessPrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{TabPrefix: "== ", ErrorPrefix: "! ", SuccessPrefix: "✓ "}

// Option configures an Intake.
type Option func(*Intake)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(in *Intake) {
		if driver != nil {
			in.driver = driver
		}
	}
}

// WithOutputFormat selects the serialization format of Encode.
func WithOutputFormat(format OutputFormat) Option {
	return func(in *Intake) {
		if format != "" {
			in.outputFormat = format
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(in *Intake) {
		in.theme = theme
	}
}

// WithMaxAttempts bounds how often one field is re-prompted after a failed
// check. Zero or less means unlimited.
func WithMaxAttempts(n int) Option {
	return func(in *Intake) {
		in.maxAttempts = n
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(in *Intake) {
		if logger != nil {
			in.logger = logger
		}
	}
}

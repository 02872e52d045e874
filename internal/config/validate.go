package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console (got %q)", c.Log.Format)
	}

	switch c.Forms.HidePolicy {
	case "clear", "keep":
	default:
		return fmt.Errorf("forms.hide_policy must be clear or keep (got %q)", c.Forms.HidePolicy)
	}
	if c.Forms.SubmitDelay < 0 {
		return fmt.Errorf("forms.submit_delay must be >= 0 (got %s)", c.Forms.SubmitDelay)
	}

	if c.Limits.SubmitRate <= 0 {
		return fmt.Errorf("limits.submit_rate must be > 0 (got %v)", c.Limits.SubmitRate)
	}
	if c.Limits.SubmitBurst <= 0 {
		return fmt.Errorf("limits.submit_burst must be > 0 (got %d)", c.Limits.SubmitBurst)
	}
	if c.Limits.MaxBodySize <= 0 {
		return fmt.Errorf("limits.max_body_size must be > 0 (got %d)", c.Limits.MaxBodySize)
	}
	return nil
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "0.0.0.0"
  port: 9090
  shutdown_timeout: "5s"

log:
  level: "debug"
  format: "console"

forms:
  hide_policy: "keep"
  submit_delay: "250ms"
  live_validation: true

limits:
  submit_rate: 2
  submit_burst: 4
`

func TestLoadFile_YAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:9090" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr())
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Fatalf("expected default read timeout, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Fatalf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Forms.HidePolicy != "keep" || cfg.Forms.SubmitDelay != 250*time.Millisecond || !cfg.Forms.LiveValidation {
		t.Fatalf("unexpected forms config %+v", cfg.Forms)
	}
	if cfg.Limits.SubmitRate != 2 || cfg.Limits.SubmitBurst != 4 || cfg.Limits.MaxBodySize != 65536 {
		t.Fatalf("unexpected limits config %+v", cfg.Limits)
	}
}

func TestLoadFile_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("FORMS_HIDE_POLICY", "clear")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7070 || cfg.Forms.HidePolicy != "clear" {
		t.Fatalf("expected env overrides, got port=%d policy=%q", cfg.Server.Port, cfg.Forms.HidePolicy)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Forms.SubmitDelay != 1500*time.Millisecond || cfg.Forms.HidePolicy != "clear" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing explicit file")
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := func() Config {
		return Config{
			Server: ServerConfig{Port: 8080},
			Log:    LogConfig{Level: "info", Format: "json"},
			Forms:  FormsConfig{HidePolicy: "clear"},
			Limits: LimitsConfig{SubmitRate: 1, SubmitBurst: 1, MaxBodySize: 1},
		}
	}
	if err := (func() *Config { c := base(); return &c })().Validate(); err != nil {
		t.Fatalf("expected base config to be valid: %v", err)
	}

	cases := map[string]func(*Config){
		"port":        func(c *Config) { c.Server.Port = 0 },
		"log level":   func(c *Config) { c.Log.Level = "trace" },
		"log format":  func(c *Config) { c.Log.Format = "xml" },
		"hide policy": func(c *Config) { c.Forms.HidePolicy = "hide" },
		"delay":       func(c *Config) { c.Forms.SubmitDelay = -time.Second },
		"rate":        func(c *Config) { c.Limits.SubmitRate = 0 },
		"burst":       func(c *Config) { c.Limits.SubmitBurst = 0 },
		"body size":   func(c *Config) { c.Limits.MaxBodySize = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

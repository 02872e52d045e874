package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Forms  FormsConfig  `yaml:"forms"`
	Limits LimitsConfig `yaml:"limits"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// FormsConfig holds form behaviour settings.
type FormsConfig struct {
	// HidePolicy is "clear" or "keep": what happens to a dependent value when
	// its field is hidden.
	HidePolicy     string        `yaml:"hide_policy"     env:"FORMS_HIDE_POLICY"     env-default:"clear"`
	SubmitDelay    time.Duration `yaml:"submit_delay"    env:"FORMS_SUBMIT_DELAY"    env-default:"1500ms"`
	LiveValidation bool          `yaml:"live_validation" env:"FORMS_LIVE_VALIDATION" env-default:"false"`
}

// LimitsConfig holds request limits.
type LimitsConfig struct {
	SubmitRate  float64 `yaml:"submit_rate"   env:"LIMITS_SUBMIT_RATE"   env-default:"5"`
	SubmitBurst int     `yaml:"submit_burst"  env:"LIMITS_SUBMIT_BURST"  env-default:"10"`
	MaxBodySize int64   `yaml:"max_body_size" env:"LIMITS_MAX_BODY_SIZE" env-default:"65536"`
}

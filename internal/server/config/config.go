// Package config handles configuration for the development API server,
// including defaults, JSON overlay, environment and command-line flags.
package config

import "time"

// Config holds runtime settings for the development API server.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - TokenValidity: lifetime of issued bearer tokens.
//   - ShutdownTimeout: grace period for in-flight requests on stop.
//   - LogLevel / LogFormat: slog level and handler ("text" or "json").
type Config struct {
	Addr            string        `env:"ADDR"`
	SecretKey       string        `env:"SECRET_KEY"`
	TokenValidity   time.Duration `env:"TOKEN_VALIDITY"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT"`
}

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "EXPENSEKEEPER_AUTHSTUB_"

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":3000"
	c.SecretKey = "secretKey"
	c.TokenValidity = 24 * time.Hour
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

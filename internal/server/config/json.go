package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/expensekeeper/internal/flagx"
	"github.com/dmitrijs2005/expensekeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Durations accept both strings such as "15m" and integer nanoseconds.
// Absent fields leave the current value untouched.
type JsonConfig struct {
	Addr            *string         `json:"addr"`
	SecretKey       *string         `json:"secret_key"`
	TokenValidity   *timex.Duration `json:"token_validity"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`
	LogLevel        *string         `json:"log_level"`
	LogFormat       *string         `json:"log_format"`
}

// parseJson overlays cfg with the file named by -c / -config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.Addr != nil {
		cfg.Addr = *jc.Addr
	}
	if jc.SecretKey != nil {
		cfg.SecretKey = *jc.SecretKey
	}
	if jc.TokenValidity != nil {
		cfg.TokenValidity = jc.TokenValidity.Duration
	}
	if jc.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = jc.ShutdownTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
	return nil
}

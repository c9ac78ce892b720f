package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/expensekeeper/internal/flagx"
	"github.com/dmitrijs2005/expensekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Absent fields leave
// the current value untouched.
type JsonConfig struct {
	APIBaseURL         *string         `json:"api_base_url"`
	DataDir            *string         `json:"data_dir"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	LogLevel           *string         `json:"log_level"`
	LogFormat          *string         `json:"log_format"`
	BiometricsDisabled *bool           `json:"biometrics_disabled"`
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

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.DataDir != nil {
		cfg.DataDir = *jc.DataDir
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
	if jc.BiometricsDisabled != nil {
		cfg.BiometricsDisabled = *jc.BiometricsDisabled
	}
	return nil
}

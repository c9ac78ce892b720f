package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the ExpenseKeeper CLI.
//
// Fields:
//   - APIBaseURL: root of the Authentication and Expense APIs.
//   - DataDir: directory for the local database and the device identity.
//   - RequestTimeout: per-request HTTP timeout.
//   - LogLevel / LogFormat: slog level and handler ("text" or "json").
//   - BiometricsDisabled: hides the sensor even when one is available.
type Config struct {
	APIBaseURL         string        `env:"API_BASE_URL"`
	DataDir            string        `env:"DATA_DIR"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel           string        `env:"LOG_LEVEL"`
	LogFormat          string        `env:"LOG_FORMAT"`
	BiometricsDisabled bool          `env:"BIOMETRICS_DISABLED"`
}

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "EXPENSEKEEPER_"

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:3000/api"
	c.DataDir = defaultDataDir()
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.BiometricsDisabled = false
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "expensekeeper")
	}
	return ".expensekeeper"
}

// DatabasePath is the SQLite file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "expensekeeper.db")
}

// DevicePath is the device identity file inside DataDir.
func (c *Config) DevicePath() string {
	return filepath.Join(c.DataDir, "device.json")
}

// LoadConfig builds a Config from defaults, an optional JSON file, dotenv
// files and the environment, then command-line flags. Later sources win.
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

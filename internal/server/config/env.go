package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/expensekeeper/internal/flagx"
)

// parseEnv reads EXPENSEKEEPER_AUTHSTUB_* variables, after loading the
// dotenv file named by -e / -env when given.
func parseEnv(cfg *Config, args []string) error {
	if path := flagx.EnvFileFlag(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/expensekeeper/internal/flagx"
)

// parseEnv loads dotenv files into the process environment and then reads
// EXPENSEKEEPER_* variables. Variables already set in the environment are
// never overridden by dotenv files.
//
// With -e / -env the named file must exist. Otherwise ".env" and
// ".env.local" are loaded when present.
func parseEnv(cfg *Config, args []string) error {
	if path := flagx.EnvFileFlag(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	} else {
		for _, name := range []string{".env", ".env.local"} {
			if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load env file %s: %w", name, err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

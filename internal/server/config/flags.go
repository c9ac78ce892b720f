package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-l string   log level
//
// Duration flags are accepted as integers in minutes and then converted
// to time.Duration values.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("authstub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run server")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	validity := fs.Int("t", int(cfg.TokenValidity.Minutes()), "token validity (in minutes)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.TokenValidity = time.Duration(*validity) * time.Minute
	return nil
}

package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-a string   API base URL
//	-d string   data directory
//	-t int      request timeout (seconds)
//	-l string   log level
//
// Only these flags are looked at; everything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-t", "-l"})

	fs := flag.NewFlagSet("expensekeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}

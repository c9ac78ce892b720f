package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/cli"
	"github.com/dmitrijs2005/expensekeeper/internal/client/config"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

const shutdownTimeout = 3 * time.Second

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, os.Stdin, os.Stdout, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		// The REPL may be blocked reading stdin; flush and leave.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := app.Close(shutdownCtx); err != nil {
			logger.Warn(shutdownCtx, "shutdown", "error", err)
		}
		cancel()
		fmt.Println()
		os.Exit(130)
	}
}

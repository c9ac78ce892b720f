package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/server"
	"github.com/dmitrijs2005/expensekeeper/internal/server/config"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	if err := server.NewApp(cfg, logger).Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}

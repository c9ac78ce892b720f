// Package server initializes and runs the development API server: an
// in-memory Authentication and Expense API with graceful shutdown.
package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/server/config"
	"github.com/dmitrijs2005/expensekeeper/internal/server/expenses"
	"github.com/dmitrijs2005/expensekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/expensekeeper/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.HTTPServer
}

func NewApp(c *config.Config, logger logging.Logger) *App {
	us := users.NewService(users.NewMemoryRepository(), c.SecretKey, c.TokenValidity)
	es := expenses.NewService(expenses.NewMemoryRepository())

	return &App{
		config: c,
		logger: logger,
		server: httpapi.NewHTTPServer(c.Addr, logger, us, es, c.ShutdownTimeout),
	}
}

// Run serves until ctx is cancelled or SIGINT / SIGTERM / SIGQUIT arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.server.Run(ctx)
	})

	err := g.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "Stopped")
	return err
}

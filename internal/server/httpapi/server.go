// Package httpapi serves the Authentication and Expense APIs over HTTP for
// local development and integration tests.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/expensekeeper/internal/logging"
	"github.com/dmitrijs2005/expensekeeper/internal/server/expenses"
	"github.com/dmitrijs2005/expensekeeper/internal/server/users"
)

type HTTPServer struct {
	address         string
	users           *users.Service
	expenses        *expenses.Service
	logger          logging.Logger
	validate        *validator.Validate
	shutdownTimeout time.Duration
}

func NewHTTPServer(addr string, l logging.Logger, us *users.Service, es *expenses.Service, shutdownTimeout time.Duration) *HTTPServer {
	return &HTTPServer{
		address:         addr,
		users:           us,
		expenses:        es,
		logger:          l.With("module", "http_server"),
		validate:        validator.New(),
		shutdownTimeout: shutdownTimeout,
	}
}

// Handler returns the router with every route mounted under /api.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Route("/expenses", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateExpense)
			r.Get("/{id}", s.handleListExpenses)
			r.Put("/{id}", s.handleUpdateExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}

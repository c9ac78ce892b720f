package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/client/biometric"
	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/config"
	"github.com/dmitrijs2005/expensekeeper/internal/client/console"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/expensekeeper/internal/client/secretstore"
	"github.com/dmitrijs2005/expensekeeper/internal/client/services"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
	"github.com/dmitrijs2005/expensekeeper/internal/filex"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

type App struct {
	config         *config.Config
	authService    services.AuthService
	expenseService services.ExpenseService
	reader         *console.LineReader
	out            io.Writer
	log            logging.Logger

	subscribe func() (<-chan models.Session, func())
	closers   []func(ctx context.Context) error
	closeOnce sync.Once
	closeErr  error
}

// NewApp builds the whole client stack on top of cfg. in and out are the
// terminal streams; the biometric prompt shares them with the REPL.
func NewApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, log logging.Logger) (*App, error) {
	if err := filex.EnsurePrivateDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, cfg.DatabasePath())
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	device, err := secretstore.LoadOrCreateDevice(cfg.DevicePath())
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reader := console.NewLineReader(in)

	store := secretstore.NewSQLiteStore(db, device)
	prefs := preferences.NewSQLiteRepository(db)
	sessions := session.NewManager(store, prefs, log)
	apiClient := client.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout)

	sensor := biometric.NewSoftwareSensor(prefs,
		biometric.WithIO(reader, out),
		biometric.WithDisabled(cfg.BiometricsDisabled),
	)
	gate := biometric.NewGate(sensor, store, prefs, sessions, apiClient, log)

	as := services.NewAuthService(apiClient, sessions, gate, log)
	es := services.NewExpenseService(apiClient, as, log)

	return &App{
		config:         cfg,
		authService:    as,
		expenseService: es,
		reader:         reader,
		out:            out,
		log:            log,
		subscribe:      sessions.Subscribe,
		closers: []func(ctx context.Context) error{
			sessions.Close,
			func(context.Context) error { return apiClient.Close() },
			closeDB(db),
		},
	}, nil
}

func closeDB(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}

// Close flushes pending session writes and releases resources. Only the
// first call does any work.
func (a *App) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		var errs []error
		for _, c := range a.closers {
			if err := c(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

// Run restores the previous session, starts the REPL and blocks until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			a.log.Warn(ctx, "shutdown", "error", err)
		}
	}()

	a.printf("Welcome to ExpenseKeeper CLI (type 'help' for commands)\n")

	s := a.authService.Restore(ctx)
	if s.IsAuthenticated {
		a.printf("Welcome back, %s\n", displayName(s.User))
	}

	if a.subscribe != nil {
		updates, cancel := a.subscribe()
		defer cancel()
		go a.watchSession(ctx, updates, s)
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// watchSession logs session transitions published by the session manager,
// including the silent logout after the server rejected the token.
func (a *App) watchSession(ctx context.Context, updates <-chan models.Session, prev models.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-updates:
			if !ok {
				return
			}
			switch {
			case prev.IsAuthenticated && !s.IsAuthenticated:
				a.log.Info(ctx, "session ended")
			case !prev.IsAuthenticated && s.IsAuthenticated:
				a.log.Info(ctx, "session started", "user_id", s.UserID())
			}
			prev = s
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.Session().IsAuthenticated
}

func (a *App) getStatus() string {
	s := a.authService.Session()
	if !s.IsAuthenticated {
		return ""
	}
	status := s.User.Email
	if s.BiometricsEnabled {
		status += " bio"
	}
	return fmt.Sprintf("(%s)", status)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func displayName(u *models.User) string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

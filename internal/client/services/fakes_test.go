package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/expensekeeper/internal/client/secretstore"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

// ---- fake client ----

// fakeClient implements client.Client for the service tests.
type fakeClient struct {
	LoginRet    *client.LoginResult
	LoginErr    error
	RegisterErr error

	ListRet   []models.Expense
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// recorded arguments
	LoginCalls       int
	LastLoginEmail   string
	LastRegisterName string
	LastToken        string
	LastUserID       int64
	LastInput        models.ExpenseInput
	LastID           int64
}

func okLogin() *client.LoginResult {
	return &client.LoginResult{Token: "tok1", User: &models.User{ID: 1, Email: "a@b.com", Name: "A"}}
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.LoginResult, error) {
	f.LoginCalls++
	f.LastLoginEmail = email
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginRet, nil
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string) error {
	f.LastRegisterName = name
	return f.RegisterErr
}

func (f *fakeClient) ListExpenses(ctx context.Context, token string, userID int64) ([]models.Expense, error) {
	f.LastToken, f.LastUserID = token, userID
	return f.ListRet, f.ListErr
}

func (f *fakeClient) CreateExpense(ctx context.Context, token string, in models.ExpenseInput) (*models.Expense, error) {
	f.LastToken, f.LastInput = token, in
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	return &models.Expense{ID: 10, UserID: in.UserID, Title: in.Title, Amount: in.Amount, Category: in.Category, Date: in.Date}, nil
}

func (f *fakeClient) UpdateExpense(ctx context.Context, token string, id int64, in models.ExpenseInput) (*models.Expense, error) {
	f.LastToken, f.LastID, f.LastInput = token, id, in
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	return &models.Expense{ID: id, Title: in.Title, Amount: in.Amount, Category: in.Category, Date: in.Date}, nil
}

func (f *fakeClient) DeleteExpense(ctx context.Context, token string, id int64) error {
	f.LastToken, f.LastID = token, id
	return f.DeleteErr
}

func (f *fakeClient) Close() error { return nil }

// ---- fake gate ----

type fakeGate struct {
	capability models.Capability
	checks     int
	enableErr  error
	enabled    []string
	disableErr error
	disabled   int
	authOK     bool
	authErr    error
}

func (g *fakeGate) CheckAvailability(ctx context.Context) models.Capability {
	g.checks++
	return g.capability
}
func (g *fakeGate) Capability() models.Capability { return g.capability }
func (g *fakeGate) BiometryName() string          { return "Touch ID" }
func (g *fakeGate) Enable(ctx context.Context, email, password string) error {
	g.enabled = append(g.enabled, email+":"+password)
	return g.enableErr
}
func (g *fakeGate) Disable(ctx context.Context) error {
	g.disabled++
	return g.disableErr
}
func (g *fakeGate) Authenticate(ctx context.Context) (bool, error) { return g.authOK, g.authErr }

// ---- real session stack ----

type stack struct {
	store    *secretstore.SQLiteStore
	prefs    *preferences.SQLiteRepository
	sessions *session.Manager
}

func newStack(t *testing.T) *stack {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	db, err := client.InitDatabase(ctx, filepath.Join(dir, "expensekeeper.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	dev, err := secretstore.LoadOrCreateDevice(filepath.Join(dir, "device.json"))
	require.NoError(t, err)

	st := &stack{
		store: secretstore.NewSQLiteStore(db, dev, secretstore.WithHostname("h")),
		prefs: preferences.NewSQLiteRepository(db),
	}
	st.sessions = session.NewManager(st.store, st.prefs, logging.Discard())
	t.Cleanup(func() { _ = st.sessions.Close(context.Background()) })
	return st
}

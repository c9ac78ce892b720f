package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/expensekeeper/internal/client/console"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

type fakeAuth struct {
	session    models.Session
	capability models.Capability

	loginErr    error
	registerErr error
	logoutErr   error
	enableErr   error
	disableErr  error
	bioOK       bool
	bioErr      error

	loginCalls  []string
	enableCalls []string
	logouts     int
	disables    int
	bioCalls    int
}

func (f *fakeAuth) Restore(ctx context.Context) models.Session { return f.session }
func (f *fakeAuth) Session() models.Session                    { return f.session }

func (f *fakeAuth) Login(ctx context.Context, email, password string) (models.Session, error) {
	f.loginCalls = append(f.loginCalls, email+":"+password)
	if f.loginErr != nil {
		return f.session, f.loginErr
	}
	f.session = models.NewSession(&models.User{ID: 1, Email: email, Name: "Ann"}, "tok", f.session.BiometricsEnabled)
	return f.session, nil
}

func (f *fakeAuth) Register(ctx context.Context, name, email, password string) (models.Session, error) {
	if f.registerErr != nil {
		return f.session, f.registerErr
	}
	f.session = models.NewSession(&models.User{ID: 2, Email: email, Name: name}, "tok", false)
	return f.session, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logouts++
	f.session = models.Session{}
	return f.logoutErr
}

func (f *fakeAuth) LogoutSilently(ctx context.Context) { _ = f.Logout(ctx) }

func (f *fakeAuth) BiometricCapability(ctx context.Context) models.Capability { return f.capability }
func (f *fakeAuth) BiometryName() string                                      { return "Touch ID" }

func (f *fakeAuth) EnableBiometrics(ctx context.Context, email, password string) error {
	f.enableCalls = append(f.enableCalls, email+":"+password)
	if f.enableErr != nil {
		return f.enableErr
	}
	f.session.BiometricsEnabled = true
	return nil
}

func (f *fakeAuth) DisableBiometrics(ctx context.Context) error {
	f.disables++
	f.session.BiometricsEnabled = false
	return f.disableErr
}

func (f *fakeAuth) AuthenticateWithBiometrics(ctx context.Context) (bool, error) {
	f.bioCalls++
	if f.bioErr != nil || !f.bioOK {
		return false, f.bioErr
	}
	f.session = models.NewSession(&models.User{ID: 1, Email: "ann@example.com", Name: "Ann"}, "tok", true)
	return true, nil
}

type fakeExpenses struct {
	items []models.Expense
	err   error

	created []models.ExpenseInput
	updated map[int64]models.ExpenseInput
	deleted []int64
}

func (f *fakeExpenses) List(ctx context.Context) ([]models.Expense, error) {
	return f.items, f.err
}

func (f *fakeExpenses) Create(ctx context.Context, in models.ExpenseInput) (*models.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &models.Expense{ID: int64(100 + len(f.created)), Title: in.Title}, nil
}

func (f *fakeExpenses) Update(ctx context.Context, id int64, in models.ExpenseInput) (*models.Expense, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.updated == nil {
		f.updated = map[int64]models.ExpenseInput{}
	}
	f.updated[id] = in
	return &models.Expense{ID: id, Title: in.Title}, nil
}

func (f *fakeExpenses) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func loggedIn() models.Session {
	return models.NewSession(&models.User{ID: 1, Email: "ann@example.com", Name: "Ann"}, "tok", false)
}

// newTestApp builds an App over fakes. Every prompt, the password included,
// is answered from lines.
func newTestApp(t *testing.T, auth *fakeAuth, exp *fakeExpenses, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	var out bytes.Buffer
	input := strings.Join(lines, "\n")
	if len(lines) > 0 {
		input += "\n"
	}
	return &App{
		authService:    auth,
		expenseService: exp,
		reader:         console.NewLineReader(strings.NewReader(input)),
		out:            &out,
		log:            logging.Discard(),
	}, &out
}

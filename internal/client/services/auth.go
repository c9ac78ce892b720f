// Package services contains the application services of the ExpenseKeeper
// client. They sit between the REPL and the session manager, the biometric
// gate and the API client, and turn every failure into a recoverable error
// with a user-facing message (see UserMessage).
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

// SessionManager is what the services need from session.Manager.
type SessionManager interface {
	Snapshot() models.Session
	Restore(ctx context.Context) models.Session
	Commit(ctx context.Context, user *models.User, token string) (models.Session, error)
	Logout(ctx context.Context) error
}

// BiometricGate is what the services need from biometric.Gate.
type BiometricGate interface {
	CheckAvailability(ctx context.Context) models.Capability
	Capability() models.Capability
	BiometryName() string
	Enable(ctx context.Context, email, password string) error
	Disable(ctx context.Context) error
	Authenticate(ctx context.Context) (bool, error)
}

// AuthService is the authentication surface exposed to the UI.
//
// Contract:
//   - Restore: silent startup restore; never fails.
//   - Login / Register: talk to the Authentication API and commit the
//     session on success. Any failure leaves the session unchanged.
//   - Logout / LogoutSilently: drop the session and every stored secret.
//   - EnableBiometrics / DisableBiometrics / AuthenticateWithBiometrics:
//     the biometric shortcut; failures never block password login.
type AuthService interface {
	Restore(ctx context.Context) models.Session
	Session() models.Session
	Login(ctx context.Context, email, password string) (models.Session, error)
	Register(ctx context.Context, name, email, password string) (models.Session, error)
	Logout(ctx context.Context) error
	LogoutSilently(ctx context.Context)

	BiometricCapability(ctx context.Context) models.Capability
	BiometryName() string
	EnableBiometrics(ctx context.Context, email, password string) error
	DisableBiometrics(ctx context.Context) error
	AuthenticateWithBiometrics(ctx context.Context) (bool, error)
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type registerInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type authService struct {
	client   client.Client
	sessions SessionManager
	gate     BiometricGate
	log      logging.Logger
	validate *validator.Validate
}

func NewAuthService(c client.Client, sessions SessionManager, gate BiometricGate, log logging.Logger) AuthService {
	return &authService{
		client:   c,
		sessions: sessions,
		gate:     gate,
		log:      log.With("component", "auth"),
		validate: validator.New(),
	}
}

func (a *authService) Restore(ctx context.Context) models.Session {
	a.gate.CheckAvailability(ctx)
	return a.sessions.Restore(ctx)
}

func (a *authService) Session() models.Session {
	return a.sessions.Snapshot()
}

func (a *authService) Login(ctx context.Context, email, password string) (models.Session, error) {
	if err := a.validate.Struct(loginInput{Email: email, Password: password}); err != nil {
		return a.sessions.Snapshot(), fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.log.Info(ctx, "login failed", "error", err)
		return a.sessions.Snapshot(), err
	}
	return a.sessions.Commit(ctx, res.User, res.Token)
}

// Register creates the account and then logs in with the same credentials.
func (a *authService) Register(ctx context.Context, name, email, password string) (models.Session, error) {
	if err := a.validate.Struct(registerInput{Name: name, Email: email, Password: password}); err != nil {
		return a.sessions.Snapshot(), fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := a.client.Register(ctx, name, email, password); err != nil {
		a.log.Info(ctx, "registration failed", "error", err)
		if errors.Is(err, client.ErrCredentialsRejected) {
			return a.sessions.Snapshot(), fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
		}
		return a.sessions.Snapshot(), err
	}

	res, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.log.Warn(ctx, "auto-login after registration failed", "error", err)
		if errors.Is(err, client.ErrServerUnreachable) {
			return a.sessions.Snapshot(), err
		}
		return a.sessions.Snapshot(), fmt.Errorf("%w: %w", ErrAutoLoginFailed, err)
	}
	return a.sessions.Commit(ctx, res.User, res.Token)
}

// Logout returns storage failures for information only; the session is gone
// either way.
func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Logout(ctx)
}

func (a *authService) LogoutSilently(ctx context.Context) {
	if err := a.sessions.Logout(ctx); err != nil {
		a.log.Warn(ctx, "logout left stored data behind", "error", err)
	}
}

func (a *authService) BiometricCapability(ctx context.Context) models.Capability {
	return a.gate.CheckAvailability(ctx)
}

func (a *authService) BiometryName() string {
	return a.gate.BiometryName()
}

// EnableBiometrics only accepts the credentials of the current session,
// checked by a fresh login, so the stored pair is known to work.
func (a *authService) EnableBiometrics(ctx context.Context, email, password string) error {
	s := a.sessions.Snapshot()
	if !s.IsAuthenticated {
		return ErrNotAuthenticated
	}
	if s.User.Email != email {
		return fmt.Errorf("%w: email does not match the current user", ErrInvalidInput)
	}

	if _, err := a.client.Login(ctx, email, password); err != nil {
		return err
	}
	return a.gate.Enable(ctx, email, password)
}

func (a *authService) DisableBiometrics(ctx context.Context) error {
	return a.gate.Disable(ctx)
}

func (a *authService) AuthenticateWithBiometrics(ctx context.Context) (bool, error) {
	ok, err := a.gate.Authenticate(ctx)
	if errors.Is(err, client.ErrCredentialsRejected) {
		return false, fmt.Errorf("%w: %w", ErrStoredCredentialsRejected, err)
	}
	return ok, err
}

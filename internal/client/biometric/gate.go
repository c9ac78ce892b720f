package biometric

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/expensekeeper/internal/client/secretstore"
	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

// Sessions is the part of the session manager the gate drives.
// SetBiometricsEnabled returns the snapshot right after the change.
type Sessions interface {
	Commit(ctx context.Context, user *models.User, token string) (models.Session, error)
	SetBiometricsEnabled(enabled bool) models.Session
}

// Authenticator performs a password login against the Authentication API.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*client.LoginResult, error)
}

// Gate wires the sensor, the secret store and the session manager together.
// Every failure leaves the password login path untouched.
type Gate struct {
	sensor   Sensor
	store    secretstore.Store
	prefs    preferences.Repository
	sessions Sessions
	auth     Authenticator
	log      logging.Logger

	mu         sync.RWMutex
	capability models.Capability
}

func NewGate(sensor Sensor, store secretstore.Store, prefs preferences.Repository, sessions Sessions, auth Authenticator, log logging.Logger) *Gate {
	return &Gate{
		sensor:   sensor,
		store:    store,
		prefs:    prefs,
		sessions: sessions,
		auth:     auth,
		log:      log.With("component", "biometric"),
	}
}

// CheckAvailability queries the sensor. It never fails: sensor errors
// degrade to "not available".
func (g *Gate) CheckAvailability(ctx context.Context) models.Capability {
	c, err := g.sensor.IsSensorAvailable(ctx)
	if err != nil {
		g.log.Warn(ctx, "sensor check failed", "error", err)
		c = models.Capability{}
	}
	if !c.Available {
		c.Kind = models.BiometryNone
	}

	g.mu.Lock()
	g.capability = c
	g.mu.Unlock()
	return c
}

// Capability is the result of the last CheckAvailability.
func (g *Gate) Capability() models.Capability {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.capability
}

// BiometryName is the user-facing name of the sensor.
func (g *Gate) BiometryName() string {
	switch g.Capability().Kind {
	case models.BiometryFace:
		return "Face ID"
	case models.BiometryFingerprint:
		return "Touch ID"
	case models.BiometryGeneric:
		return "Fingerprint"
	}
	return "Biometrics"
}

// Enable creates the sensor key pair, stores the credential pair on the
// device-only tier and only then sets the durable and in-memory flags. If
// the pair cannot be stored the flag stays unset. Enabling needs a live
// session: when it ends before the in-memory flag is set, everything
// written here is removed again and ErrNoSession is returned.
func (g *Gate) Enable(ctx context.Context, email, password string) error {
	if !g.Capability().Available {
		return ErrSensorUnavailable
	}

	publicKey, err := g.sensor.CreateKeys(ctx)
	if err != nil {
		g.log.Warn(ctx, "create sensor keys failed", "error", err)
		return fmt.Errorf("%w: %w", ErrSensorUnavailable, err)
	}
	if publicKey == "" {
		return fmt.Errorf("%w: sensor returned no key", ErrSensorUnavailable)
	}

	err = g.store.PutAll(ctx, []secretstore.Entry{
		{Key: secretstore.KeyBiometricEmail, Value: email, Tier: secretstore.TierWhenUnlockedThisDeviceOnly},
		{Key: secretstore.KeyBiometricPassword, Value: password, Tier: secretstore.TierWhenUnlockedThisDeviceOnly},
	})
	if err != nil {
		g.log.Warn(ctx, "store biometric credentials failed", "error", err)
		return err
	}

	if err := g.prefs.Set(ctx, preferences.KeyBiometricsEnabled, common.BiometricsEnabledMarker); err != nil {
		g.log.Warn(ctx, "store biometrics flag failed", "error", err)
		g.clearCredentials(ctx)
		return fmt.Errorf("store biometrics flag: %w", err)
	}

	if s := g.sessions.SetBiometricsEnabled(true); !s.IsAuthenticated {
		// A logout got in while the pair was being written; its clears may
		// already have run, so undo ours.
		g.log.Warn(ctx, "session ended while enabling biometrics")
		g.sessions.SetBiometricsEnabled(false)
		if _, err := g.sensor.DeleteKeys(ctx); err != nil {
			g.log.Warn(ctx, "delete sensor keys failed", "error", err)
		}
		errs := g.clearCredentials(ctx)
		if err := g.prefs.Delete(ctx, preferences.KeyBiometricsEnabled); err != nil {
			errs = append(errs, err)
		}
		if err := errors.Join(errs...); err != nil {
			g.log.Warn(ctx, "biometric rollback incomplete", "error", err)
		}
		return ErrNoSession
	}

	g.log.Info(ctx, "biometrics enabled", "kind", g.Capability().Kind)
	return nil
}

// Disable removes the key pair, the credential pair and the durable flag,
// then clears the in-memory flag. Every step runs even if an earlier one
// fails; the failures are returned joined.
func (g *Gate) Disable(ctx context.Context) error {
	var errs []error

	if _, err := g.sensor.DeleteKeys(ctx); err != nil {
		errs = append(errs, fmt.Errorf("delete sensor keys: %w", err))
	}
	errs = append(errs, g.clearCredentials(ctx)...)
	if err := g.prefs.Delete(ctx, preferences.KeyBiometricsEnabled); err != nil {
		errs = append(errs, fmt.Errorf("clear biometrics flag: %w", err))
	}

	g.sessions.SetBiometricsEnabled(false)

	err := errors.Join(errs...)
	if err != nil {
		g.log.Warn(ctx, "biometrics disabled with errors", "error", err)
	} else {
		g.log.Info(ctx, "biometrics disabled")
	}
	return err
}

func (g *Gate) clearCredentials(ctx context.Context) []error {
	var errs []error
	for _, k := range []secretstore.Key{secretstore.KeyBiometricEmail, secretstore.KeyBiometricPassword} {
		if err := g.store.Clear(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", k, err))
		}
	}
	return errs
}

// Credentials returns the stored pair. Unreadable or incomplete data is
// reported as ErrNoCredentials.
func (g *Gate) Credentials(ctx context.Context) (models.BiometricCredentials, error) {
	var creds models.BiometricCredentials

	email, okEmail, err := g.store.Get(ctx, secretstore.KeyBiometricEmail)
	if err != nil {
		g.log.Warn(ctx, "read biometric email failed", "error", err)
		return creds, ErrNoCredentials
	}
	password, okPassword, err := g.store.Get(ctx, secretstore.KeyBiometricPassword)
	if err != nil {
		g.log.Warn(ctx, "read biometric password failed", "error", err)
		return creds, ErrNoCredentials
	}
	if !okEmail || !okPassword {
		return creds, ErrNoCredentials
	}

	creds.Email, creds.Password = email, password
	return creds, nil
}

// Authenticate prompts the sensor and replays the stored pair through the
// normal login. A cancelled prompt returns false and no error. The session
// is only changed after a successful login.
func (g *Gate) Authenticate(ctx context.Context) (bool, error) {
	if !g.Capability().Available {
		return false, ErrSensorUnavailable
	}

	ok, err := g.sensor.SimplePrompt(ctx, "Authenticate with "+g.BiometryName())
	if errors.Is(err, ErrSensorCancelled) || (err == nil && !ok) {
		g.log.Debug(ctx, "biometric prompt cancelled")
		return false, nil
	}
	if err != nil {
		g.log.Warn(ctx, "biometric prompt failed", "error", err)
		return false, err
	}

	creds, err := g.Credentials(ctx)
	if err != nil {
		return false, err
	}

	res, err := g.auth.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if _, err := g.sessions.Commit(ctx, res.User, res.Token); err != nil {
		return false, err
	}
	return true, nil
}

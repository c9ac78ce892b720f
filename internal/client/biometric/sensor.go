// Package biometric offers a shortcut into the login flow: after a
// successful sensor prompt the stored email/password pair is replayed
// through the normal login path.
//
// The stored pair is plaintext inside the encrypted secret store. It is
// bound to this device but anyone who passes the prompt on this device can
// recover the password.
package biometric

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
)

var (
	ErrSensorUnavailable = errors.New("biometric sensor unavailable")
	ErrSensorCancelled   = errors.New("biometric prompt cancelled")
	ErrNoCredentials     = errors.New("no credentials found; login normally")
	ErrNoSession         = errors.New("no active session")
)

// Sensor is the platform biometric facility.
type Sensor interface {
	// IsSensorAvailable reports whether a sensor can be used right now.
	IsSensorAvailable(ctx context.Context) (models.Capability, error)
	// CreateKeys creates or replaces the key pair gating the prompt and
	// returns the encoded public key, or another non-empty key handle.
	CreateKeys(ctx context.Context) (string, error)
	// DeleteKeys removes the key pair. Deleting absent keys is not an error.
	DeleteKeys(ctx context.Context) (bool, error)
	// SimplePrompt asks the user to authenticate. A cancelled prompt
	// returns false and either a nil error or ErrSensorCancelled.
	SimplePrompt(ctx context.Context, message string) (bool, error)
}

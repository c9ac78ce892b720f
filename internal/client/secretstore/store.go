package secretstore

import (
	"context"
	"errors"
)

// Key is the logical name of a persisted secret.
type Key string

const (
	KeyToken             Key = "auth_token"
	KeyUserProfile       Key = "user_data"
	KeyBiometricEmail    Key = "biometric_email"
	KeyBiometricPassword Key = "biometric_password"
)

// AllKeys returns every key the store accepts, in clear-all order.
func AllKeys() []Key {
	return []Key{KeyToken, KeyUserProfile, KeyBiometricEmail, KeyBiometricPassword}
}

// Valid reports whether k is one of the known keys.
func (k Key) Valid() bool {
	switch k {
	case KeyToken, KeyUserProfile, KeyBiometricEmail, KeyBiometricPassword:
		return true
	}
	return false
}

// Tier is the accessibility policy of a stored secret.
type Tier int

const (
	TierWhenUnlocked Tier = iota + 1
	TierWhenUnlockedThisDeviceOnly
)

func (t Tier) String() string {
	switch t {
	case TierWhenUnlocked:
		return "when_unlocked"
	case TierWhenUnlockedThisDeviceOnly:
		return "when_unlocked_this_device_only"
	}
	return "unknown"
}

var (
	ErrStorageUnavailable = errors.New("secure storage unavailable")
	ErrUnknownKey         = errors.New("unknown secret key")
	ErrUnknownTier        = errors.New("unknown accessibility tier")
)

// Entry is one key/value/tier triple for PutAll.
type Entry struct {
	Key   Key
	Value string
	Tier  Tier
}

// Store is the secret persistence contract used by the session manager and
// the biometric gate.
type Store interface {
	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key Key, value string, tier Tier) error
	// Get returns the value and true, or "" and false if the key is absent.
	Get(ctx context.Context, key Key) (string, bool, error)
	// Clear removes the key. Clearing an absent key succeeds.
	Clear(ctx context.Context, key Key) error
	// PutAll writes all entries or none of them.
	PutAll(ctx context.Context, entries []Entry) error
}

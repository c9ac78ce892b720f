package preferences

import (
	"context"
)

// Well-known preference keys.
const (
	KeyBiometricsEnabled = "biometricsEnabled"
	KeySensorKeyID       = "sensorKeyId"
)

type Repository interface {
	// Get returns the value and true, or "" and false when the key is unset.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
}

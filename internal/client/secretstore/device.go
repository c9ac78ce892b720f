package secretstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/filex"
	"github.com/google/uuid"
)

const deviceSecretSize = 32

// Device is the local root of trust for the store: a stable identity, a
// random secret that never leaves the device file, and the KDF salt.
type Device struct {
	ID     uuid.UUID `json:"id"`
	Secret []byte    `json:"secret"`
	Salt   []byte    `json:"salt"`
}

// NewDevice creates a fresh identity.
func NewDevice() *Device {
	return &Device{
		ID:     uuid.New(),
		Secret: common.GenerateRandByteArray(deviceSecretSize),
		Salt:   common.GenerateRandByteArray(16),
	}
}

// LoadOrCreateDevice reads the device file at path, creating it with mode
// 0600 on first run.
func LoadOrCreateDevice(path string) (*Device, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		var d Device
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parse device file %s: %w", path, err)
		}
		if d.ID == uuid.Nil || len(d.Secret) != deviceSecretSize || len(d.Salt) == 0 {
			return nil, fmt.Errorf("device file %s is incomplete", path)
		}
		return &d, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read device file %s: %w", path, err)
	}

	d := NewDevice()
	data, err = json.Marshal(d)
	if err != nil {
		return nil, err
	}
	if err := filex.EnsurePrivateDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("write device file %s: %w", path, err)
	}
	return d, nil
}

// fingerprint binds this-device-only items to the device identity and host.
func (d *Device) fingerprint(hostname string) string {
	return d.ID.String() + "@" + hostname
}

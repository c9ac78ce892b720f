package secretstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/cryptox"
	"github.com/dmitrijs2005/expensekeeper/internal/dbx"
)

const upsertSecret = `
	INSERT INTO secrets (key, tier, value) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET tier = excluded.tier, value = excluded.value
`

// SQLiteStore is the file-backed Store used by the CLI. It expects the
// secrets table created by the client migrations.
type SQLiteStore struct {
	db       *sql.DB
	device   *Device
	hostname string
	locks    keyLocks

	mu  sync.RWMutex
	key []byte // nil while locked
}

type Option func(*SQLiteStore)

// WithHostname overrides the host part of the device fingerprint.
func WithHostname(name string) Option {
	return func(s *SQLiteStore) { s.hostname = name }
}

// NewSQLiteStore returns an unlocked store bound to device.
func NewSQLiteStore(db *sql.DB, device *Device, opts ...Option) *SQLiteStore {
	s := &SQLiteStore{db: db, device: device, locks: newKeyLocks()}
	if h, err := os.Hostname(); err == nil {
		s.hostname = h
	}
	for _, opt := range opts {
		opt(s)
	}
	s.key = cryptox.DeriveStoreKey(device.Secret, device.Salt)
	return s
}

// Lock wipes the store key from memory. Until Unlock is called every
// operation fails with ErrStorageUnavailable.
func (s *SQLiteStore) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	common.WipeByteArray(s.key)
	s.key = nil
}

// Unlock re-derives the store key from the device identity.
func (s *SQLiteStore) Unlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		s.key = cryptox.DeriveStoreKey(s.device.Secret, s.device.Salt)
	}
}

func (s *SQLiteStore) storeKey() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == nil {
		return nil, fmt.Errorf("%w: store is locked", ErrStorageUnavailable)
	}
	return append([]byte(nil), s.key...), nil
}

func (s *SQLiteStore) aad(k Key, t Tier) []byte {
	if t == TierWhenUnlockedThisDeviceOnly {
		return []byte(string(k) + "|" + s.device.fingerprint(s.hostname))
	}
	return []byte(k)
}

func (s *SQLiteStore) seal(storeKey []byte, e Entry) ([]byte, error) {
	if !e.Key.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, e.Key)
	}
	if e.Tier != TierWhenUnlocked && e.Tier != TierWhenUnlockedThisDeviceOnly {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTier, e.Tier)
	}
	sealed, err := cryptox.Seal(storeKey, []byte(e.Value), s.aad(e.Key, e.Tier))
	if err != nil {
		return nil, fmt.Errorf("failed to seal secret[%s]: %w: %w", e.Key, ErrStorageUnavailable, err)
	}
	return sealed, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key Key, value string, tier Tier) error {
	storeKey, err := s.storeKey()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(storeKey)

	sealed, err := s.seal(storeKey, Entry{Key: key, Value: value, Tier: tier})
	if err != nil {
		return err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	if _, err := s.db.ExecContext(ctx, upsertSecret, string(key), int(tier), sealed); err != nil {
		return fmt.Errorf("failed to put secret[%s]: %w: %w", key, ErrStorageUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) PutAll(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	storeKey, err := s.storeKey()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(storeKey)

	keys := make([]Key, 0, len(entries))
	sealed := make([][]byte, 0, len(entries))
	for _, e := range entries {
		b, err := s.seal(storeKey, e)
		if err != nil {
			return err
		}
		keys = append(keys, e.Key)
		sealed = append(sealed, b)
	}

	unlock := s.locks.lockMany(keys)
	defer unlock()

	err = dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		for i, e := range entries {
			if _, err := tx.ExecContext(ctx, upsertSecret, string(e.Key), int(e.Tier), sealed[i]); err != nil {
				return fmt.Errorf("secret[%s]: %w", e.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to put secrets: %w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key Key) (string, bool, error) {
	if !key.Valid() {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}

	storeKey, err := s.storeKey()
	if err != nil {
		return "", false, err
	}
	defer common.WipeByteArray(storeKey)

	unlock := s.locks.lock(key)
	defer unlock()

	var (
		tier   int
		sealed []byte
	)
	err = s.db.QueryRowContext(ctx, `SELECT tier, value FROM secrets WHERE key = ?`, string(key)).Scan(&tier, &sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get secret[%s]: %w: %w", key, ErrStorageUnavailable, err)
	}

	plain, err := cryptox.Open(storeKey, sealed, s.aad(key, Tier(tier)))
	if err != nil {
		if Tier(tier) == TierWhenUnlockedThisDeviceOnly {
			// Bound to another device: not available here.
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to open secret[%s]: %w: %w", key, ErrStorageUnavailable, err)
	}
	return string(plain), true, nil
}

func (s *SQLiteStore) Clear(ctx context.Context, key Key) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	if _, err := s.storeKey(); err != nil {
		return err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM secrets WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("failed to clear secret[%s]: %w: %w", key, ErrStorageUnavailable, err)
	}
	return nil
}

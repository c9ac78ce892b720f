package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/expensekeeper/internal/client/secretstore"
	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

// Manager is the single owner of the authentication state. It is safe for
// concurrent use.
type Manager struct {
	store    secretstore.Store
	prefs    preferences.Repository
	log      logging.Logger
	validate *validator.Validate
	worker   *worker

	mu      sync.RWMutex
	user    *models.User
	token   string
	bio     bool
	gen     uint64 // bumped by every transition
	subs    map[int]chan models.Session
	nextSub int
}

// NewManager starts a logged-out manager and its persistence worker. Call
// Close to stop the worker.
func NewManager(store secretstore.Store, prefs preferences.Repository, log logging.Logger) *Manager {
	m := &Manager{
		store:    store,
		prefs:    prefs,
		log:      log.With("component", "session"),
		validate: validator.New(),
		subs:     make(map[int]chan models.Session),
	}
	m.worker = newWorker(func(ctx context.Context, name string, err error) {
		m.log.Warn(ctx, "session persistence failed", "step", name, "error", err)
	})
	return m
}

// Snapshot returns the current state. The result is a copy.
func (m *Manager) Snapshot() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() models.Session {
	return models.NewSession(m.user, m.token, m.bio)
}

// setLocked applies a transition and notifies subscribers. m.mu must be held.
func (m *Manager) setLocked(user *models.User, token string, bio bool) {
	if user != nil {
		u := *user
		user = &u
	}
	m.user, m.token, m.bio = user, token, bio
	m.gen++
	m.publishLocked(m.snapshotLocked())
}

type restored struct {
	user  *models.User
	token string
	bio   bool
}

// Restore rebuilds the session from durable storage without contacting the
// server. Missing or unreadable data leaves the manager logged out; Restore
// never fails. If the manager is already logged in, or any transition
// happened while the stored data was being read, the loaded data is
// discarded.
func (m *Manager) Restore(ctx context.Context) models.Session {
	m.mu.RLock()
	gen := m.gen
	m.mu.RUnlock()

	var r restored
	done, err := m.worker.submit(ctx, "restore", func(ctx context.Context) error {
		r = m.load(ctx)
		return nil
	}, true)
	if err != nil {
		m.log.Warn(ctx, "restore skipped", "error", err)
		return m.Snapshot()
	}

	select {
	case <-done:
	case <-ctx.Done():
		return m.Snapshot()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user != nil && m.token != "" {
		return m.snapshotLocked()
	}
	if m.gen != gen {
		m.log.Debug(ctx, "stored session superseded while restoring")
		return m.snapshotLocked()
	}
	if r.user == nil || r.token == "" {
		m.log.Debug(ctx, "no stored session")
		return m.snapshotLocked()
	}
	m.setLocked(r.user, r.token, r.bio)
	m.log.Info(ctx, "session restored", "user_id", r.user.ID, "biometrics", r.bio)
	return m.snapshotLocked()
}

// load reads the stored session. Every failure degrades to "absent".
func (m *Manager) load(ctx context.Context) restored {
	var r restored

	token, ok, err := m.store.Get(ctx, secretstore.KeyToken)
	if err != nil {
		m.log.Warn(ctx, "read token failed", "error", err)
		return r
	}
	if !ok {
		return r
	}

	raw, ok, err := m.store.Get(ctx, secretstore.KeyUserProfile)
	if err != nil {
		m.log.Warn(ctx, "read user profile failed", "error", err)
		return r
	}
	if !ok {
		return r
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.log.Warn(ctx, "stored user profile is corrupt", "error", err)
		return r
	}
	if err := m.validate.Struct(&user); err != nil {
		m.log.Warn(ctx, "stored user profile is incomplete", "error", err)
		return r
	}

	r.user, r.token = &user, token
	r.bio = m.loadBiometricsFlag(ctx)
	return r
}

// loadBiometricsFlag is true only for the exact enabled marker. An absent
// flag and any other value, "false" included, mean disabled.
func (m *Manager) loadBiometricsFlag(ctx context.Context) bool {
	v, ok, err := m.prefs.Get(ctx, preferences.KeyBiometricsEnabled)
	if err != nil {
		m.log.Warn(ctx, "read biometrics flag failed", "error", err)
		return false
	}
	return ok && v == common.BiometricsEnabledMarker
}

// Commit switches to logged-in immediately and persists token and user in
// the background. A persistence failure is logged and does not undo the
// transition.
func (m *Manager) Commit(ctx context.Context, user *models.User, token string) (models.Session, error) {
	if user == nil || token == "" {
		return m.Snapshot(), ErrInvalidSession
	}

	profile, err := json.Marshal(user)
	if err != nil {
		return m.Snapshot(), fmt.Errorf("encode user profile: %w", err)
	}

	m.mu.Lock()
	m.setLocked(user, token, m.bio)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	_, err = m.worker.submit(ctx, "commit", func(ctx context.Context) error {
		return errors.Join(
			m.store.Put(ctx, secretstore.KeyToken, token, secretstore.TierWhenUnlocked),
			m.store.Put(ctx, secretstore.KeyUserProfile, string(profile), secretstore.TierWhenUnlocked),
		)
	}, false)
	if err != nil {
		m.log.Warn(ctx, "session not persisted", "error", err)
	}

	m.log.Info(ctx, "session committed", "user_id", user.ID)
	return snap, nil
}

// SetBiometricsEnabled updates the in-memory flag only. Callers store the
// credential pair before enabling and clear it after disabling.
func (m *Manager) SetBiometricsEnabled(enabled bool) models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setLocked(m.user, m.token, enabled)
	return m.snapshotLocked()
}

// Logout drops the in-memory session at once and then clears every stored
// secret and the durable biometrics flag. Each clear is attempted even if
// another fails; the joined failures are logged and returned for
// information only. Logging out twice is the same as once.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.setLocked(nil, "", false)
	m.mu.Unlock()

	done, err := m.worker.submit(ctx, "logout", m.clearAll, true)
	if err != nil {
		m.log.Warn(ctx, "stored session not cleared", "error", err)
		return err
	}

	select {
	case err = <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	m.log.Info(ctx, "logged out")
	return err
}

func (m *Manager) clearAll(ctx context.Context) error {
	var errs []error
	for _, key := range secretstore.AllKeys() {
		if err := m.store.Clear(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", key, err))
		}
	}
	if err := m.prefs.Delete(ctx, preferences.KeyBiometricsEnabled); err != nil {
		errs = append(errs, fmt.Errorf("clear biometrics flag: %w", err))
	}
	return errors.Join(errs...)
}

// Subscribe returns a channel that receives the current snapshot and then
// every change. Slow readers only see the latest state. cancel closes the
// channel.
func (m *Manager) Subscribe() (<-chan models.Session, func()) {
	ch := make(chan models.Session, 1)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	ch <- m.snapshotLocked()
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if _, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

func (m *Manager) publishLocked(s models.Session) {
	for _, ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

// Flush waits for queued persistence to finish.
func (m *Manager) Flush(ctx context.Context) error {
	return m.worker.flush(ctx)
}

// Close drains the persistence queue, stops the worker and closes every
// subscription. Operations after Close still change the in-memory state but
// nothing more is persisted.
func (m *Manager) Close(ctx context.Context) error {
	err := m.worker.close(ctx)

	m.mu.Lock()
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
	m.mu.Unlock()

	return err
}

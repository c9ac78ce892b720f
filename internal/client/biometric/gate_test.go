package biometric

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/expensekeeper/internal/client/secretstore"
	"github.com/dmitrijs2005/expensekeeper/internal/client/session"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

type gateFixture struct {
	sensor   *fakeSensor
	store    *fakeStore
	prefs    *fakePrefs
	sessions *fakeSessions
	auth     *fakeAuth
	gate     *Gate
}

func newFixture(t *testing.T, sensor *fakeSensor) *gateFixture {
	t.Helper()
	f := &gateFixture{
		sensor:   sensor,
		store:    newFakeStore(),
		prefs:    newFakePrefs(),
		sessions: loggedInSessions(),
		auth:     &fakeAuth{},
	}
	f.gate = NewGate(f.sensor, f.store, f.prefs, f.sessions, f.auth, logging.Discard())
	f.gate.CheckAvailability(context.Background())
	return f
}

func TestCheckAvailability(t *testing.T) {
	tests := []struct {
		name   string
		sensor *fakeSensor
		want   models.Capability
	}{
		{
			name:   "available",
			sensor: &fakeSensor{capability: models.Capability{Available: true, Kind: models.BiometryFace}},
			want:   models.Capability{Available: true, Kind: models.BiometryFace},
		},
		{
			name:   "sensor error degrades",
			sensor: &fakeSensor{capability: models.Capability{Available: true, Kind: models.BiometryFace}, checkErr: errBoom},
			want:   models.Capability{},
		},
		{
			name:   "unavailable drops kind",
			sensor: &fakeSensor{capability: models.Capability{Available: false, Kind: models.BiometryFingerprint}},
			want:   models.Capability{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGate(tt.sensor, newFakeStore(), newFakePrefs(), &fakeSessions{}, &fakeAuth{}, logging.Discard())
			assert.Equal(t, tt.want, g.CheckAvailability(context.Background()))
			assert.Equal(t, tt.want, g.Capability())
		})
	}
}

func TestBiometryName(t *testing.T) {
	tests := []struct {
		kind models.BiometryKind
		want string
	}{
		{models.BiometryFace, "Face ID"},
		{models.BiometryFingerprint, "Touch ID"},
		{models.BiometryGeneric, "Fingerprint"},
		{models.BiometryNone, "Biometrics"},
	}
	for _, tt := range tests {
		s := &fakeSensor{capability: models.Capability{Available: true, Kind: tt.kind}}
		g := NewGate(s, newFakeStore(), newFakePrefs(), &fakeSessions{}, &fakeAuth{}, logging.Discard())
		g.CheckAvailability(context.Background())
		assert.Equal(t, tt.want, g.BiometryName())
	}
}

func TestEnable_Success(t *testing.T) {
	f := newFixture(t, availableSensor())

	require.NoError(t, f.gate.Enable(context.Background(), "a@b.com", "secret1"))

	assert.Equal(t, 1, f.sensor.created)
	assert.Equal(t, "a@b.com", f.store.data[secretstore.KeyBiometricEmail])
	assert.Equal(t, "secret1", f.store.data[secretstore.KeyBiometricPassword])
	assert.Equal(t, secretstore.TierWhenUnlockedThisDeviceOnly, f.store.tiers[secretstore.KeyBiometricEmail])
	assert.Equal(t, secretstore.TierWhenUnlockedThisDeviceOnly, f.store.tiers[secretstore.KeyBiometricPassword])
	assert.Equal(t, "true", f.prefs.data[preferences.KeyBiometricsEnabled])
	assert.Equal(t, []bool{true}, f.sessions.bio)
}

func TestEnable_Unavailable_NoSideEffects(t *testing.T) {
	f := newFixture(t, &fakeSensor{})

	err := f.gate.Enable(context.Background(), "a@b.com", "secret1")
	require.ErrorIs(t, err, ErrSensorUnavailable)

	assert.Zero(t, f.sensor.created)
	assert.Empty(t, f.store.data)
	assert.Empty(t, f.prefs.data)
	assert.Empty(t, f.sessions.bio)
}

func TestEnable_KeyCreationFails(t *testing.T) {
	sensor := availableSensor()
	sensor.createErr = errBoom
	f := newFixture(t, sensor)

	err := f.gate.Enable(context.Background(), "a@b.com", "secret1")
	require.ErrorIs(t, err, ErrSensorUnavailable)
	assert.Empty(t, f.store.data)
	assert.Empty(t, f.prefs.data)
}

func TestEnable_CredentialWriteFails_FlagStaysUnset(t *testing.T) {
	f := newFixture(t, availableSensor())
	f.store.failPutAll = true

	err := f.gate.Enable(context.Background(), "a@b.com", "secret1")
	require.ErrorIs(t, err, secretstore.ErrStorageUnavailable)

	assert.Equal(t, 1, f.sensor.created)
	_, ok := f.prefs.data[preferences.KeyBiometricsEnabled]
	assert.False(t, ok)
	assert.Empty(t, f.sessions.bio)
}

func TestEnable_FlagWriteFails_RemovesCredentials(t *testing.T) {
	f := newFixture(t, availableSensor())
	f.prefs.failSet = true

	err := f.gate.Enable(context.Background(), "a@b.com", "secret1")
	require.Error(t, err)

	assert.Empty(t, f.store.data)
	assert.Empty(t, f.sessions.bio)
}

func TestDisable_BestEffort(t *testing.T) {
	sensor := availableSensor()
	sensor.deleteErr = errBoom
	f := newFixture(t, sensor)
	ctx := context.Background()
	require.NoError(t, f.gate.Enable(ctx, "a@b.com", "secret1"))

	f.store.failClr[secretstore.KeyBiometricEmail] = true

	err := f.gate.Disable(ctx)
	require.ErrorIs(t, err, errBoom)
	require.ErrorIs(t, err, secretstore.ErrStorageUnavailable)

	assert.Equal(t, 1, sensor.deleted)
	_, ok := f.store.data[secretstore.KeyBiometricPassword]
	assert.False(t, ok)
	_, ok = f.prefs.data[preferences.KeyBiometricsEnabled]
	assert.False(t, ok)
	assert.Equal(t, []bool{true, false}, f.sessions.bio)
}

func TestDisable_Clean(t *testing.T) {
	f := newFixture(t, availableSensor())
	ctx := context.Background()
	require.NoError(t, f.gate.Enable(ctx, "a@b.com", "secret1"))

	require.NoError(t, f.gate.Disable(ctx))
	assert.Empty(t, f.store.data)
	assert.Empty(t, f.prefs.data)
}

func TestAuthenticate_Success(t *testing.T) {
	f := newFixture(t, availableSensor())
	ctx := context.Background()
	require.NoError(t, f.gate.Enable(ctx, "a@b.com", "secret1"))

	ok, err := f.gate.Authenticate(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"Authenticate with Touch ID"}, f.sensor.prompted)
	assert.Equal(t, "a@b.com", f.auth.email)
	assert.Equal(t, "secret1", f.auth.password)
	assert.Equal(t, []string{"tok1"}, f.sessions.commits)
}

func TestAuthenticate_Cancelled(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		err  error
	}{
		{name: "false without error", ok: false, err: nil},
		{name: "cancel error", ok: false, err: ErrSensorCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sensor := availableSensor()
			sensor.promptOK, sensor.promptErr = tt.ok, tt.err
			f := newFixture(t, sensor)
			f.store.data[secretstore.KeyBiometricEmail] = "a@b.com"
			f.store.data[secretstore.KeyBiometricPassword] = "secret1"

			ok, err := f.gate.Authenticate(context.Background())
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Zero(t, f.auth.calls)
			assert.Empty(t, f.sessions.commits)
		})
	}
}

func TestAuthenticate_Unavailable(t *testing.T) {
	f := newFixture(t, &fakeSensor{})

	ok, err := f.gate.Authenticate(context.Background())
	require.ErrorIs(t, err, ErrSensorUnavailable)
	assert.False(t, ok)
	assert.Empty(t, f.sensor.prompted)
}

func TestAuthenticate_NoCredentials(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		f := newFixture(t, availableSensor())
		f.store.data[secretstore.KeyBiometricEmail] = "a@b.com"

		ok, err := f.gate.Authenticate(context.Background())
		require.ErrorIs(t, err, ErrNoCredentials)
		assert.False(t, ok)
		assert.Zero(t, f.auth.calls)
	})

	t.Run("store unavailable", func(t *testing.T) {
		f := newFixture(t, availableSensor())
		f.store.failGet = true

		ok, err := f.gate.Authenticate(context.Background())
		require.ErrorIs(t, err, ErrNoCredentials)
		assert.False(t, ok)
	})
}

func TestAuthenticate_LoginRejected_NoCommit(t *testing.T) {
	f := newFixture(t, availableSensor())
	ctx := context.Background()
	require.NoError(t, f.gate.Enable(ctx, "a@b.com", "old"))
	f.auth.err = &client.APIError{Status: 401, Message: "Invalid credentials", Err: client.ErrCredentialsRejected}

	ok, err := f.gate.Authenticate(ctx)
	require.ErrorIs(t, err, client.ErrCredentialsRejected)
	assert.False(t, ok)
	assert.Empty(t, f.sessions.commits)
}

func TestAuthenticate_PromptFailure(t *testing.T) {
	sensor := availableSensor()
	sensor.promptErr = ErrSensorUnavailable
	f := newFixture(t, sensor)

	ok, err := f.gate.Authenticate(context.Background())
	require.True(t, errors.Is(err, ErrSensorUnavailable))
	assert.False(t, ok)
}

func TestAuthenticate_ContextCancelledAfterLogin(t *testing.T) {
	f := newFixture(t, availableSensor())
	require.NoError(t, f.gate.Enable(context.Background(), "a@b.com", "secret1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := f.gate.Authenticate(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
	assert.Empty(t, f.sessions.commits)
}

// The pair written by Enable must come back byte-for-byte after a restart.
func TestEnable_ThenRestart_AuthenticateReplaysExactPair(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	const email, password = "a@b.com", "s3cret ✓ pässwörd\x00tail"

	open := func() (*secretstore.SQLiteStore, *preferences.SQLiteRepository, func()) {
		db, err := client.InitDatabase(ctx, filepath.Join(dir, "expensekeeper.db"))
		require.NoError(t, err)
		dev, err := secretstore.LoadOrCreateDevice(filepath.Join(dir, "device.json"))
		require.NoError(t, err)
		return secretstore.NewSQLiteStore(db, dev, secretstore.WithHostname("h")),
			preferences.NewSQLiteRepository(db),
			func() { _ = db.Close() }
	}

	store, prefs, closeDB := open()
	m := session.NewManager(store, prefs, logging.Discard())
	g := NewGate(availableSensor(), store, prefs, m, &fakeAuth{}, logging.Discard())
	g.CheckAvailability(ctx)
	_, err := m.Commit(ctx, &models.User{ID: 1, Email: email, Name: "A"}, "tok0")
	require.NoError(t, err)
	require.NoError(t, g.Enable(ctx, email, password))
	assert.True(t, m.Snapshot().BiometricsEnabled)
	require.NoError(t, m.Close(ctx))
	closeDB()

	store2, prefs2, closeDB2 := open()
	defer closeDB2()
	m2 := session.NewManager(store2, prefs2, logging.Discard())
	defer m2.Close(ctx)
	auth := &fakeAuth{}
	g2 := NewGate(availableSensor(), store2, prefs2, m2, auth, logging.Discard())
	g2.CheckAvailability(ctx)

	ok, err := g2.Authenticate(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, email, auth.email)
	assert.Equal(t, password, auth.password)
	assert.True(t, m2.Snapshot().IsAuthenticated)
}

func TestEnable_LogoutWhileWriting_LeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	prefs := newFakePrefs()
	m := session.NewManager(store, prefs, logging.Discard())
	defer m.Close(ctx)

	_, err := m.Commit(ctx, &models.User{ID: 1, Email: "a@b.com", Name: "A"}, "tok0")
	require.NoError(t, err)

	sensor := availableSensor()
	g := NewGate(sensor, store, prefs, m, &fakeAuth{}, logging.Discard())
	g.CheckAvailability(ctx)

	store.beforePutAll = func() { require.NoError(t, m.Logout(ctx)) }

	err = g.Enable(ctx, "a@b.com", "secret1")
	require.ErrorIs(t, err, ErrNoSession)

	s := m.Snapshot()
	assert.False(t, s.IsAuthenticated)
	assert.False(t, s.BiometricsEnabled)
	assert.Equal(t, 1, sensor.deleted)
	for _, k := range secretstore.AllKeys() {
		_, ok, err := store.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
	_, ok := prefs.data[preferences.KeyBiometricsEnabled]
	assert.False(t, ok)
}

func TestEnable_WithoutSession_RollsBack(t *testing.T) {
	f := newFixture(t, availableSensor())
	f.sessions.user, f.sessions.token = nil, ""

	err := f.gate.Enable(context.Background(), "a@b.com", "secret1")
	require.ErrorIs(t, err, ErrNoSession)

	assert.Equal(t, []bool{true, false}, f.sessions.bio)
	assert.Empty(t, f.store.data)
	assert.Empty(t, f.prefs.data)
	assert.Equal(t, 1, f.sensor.deleted)
}

package biometric

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/client/secretstore"
)

var errBoom = errors.New("boom")

type fakeSensor struct {
	capability models.Capability
	checkErr   error
	publicKey  string
	createErr  error
	deleteErr  error
	promptOK   bool
	promptErr  error

	created  int
	deleted  int
	prompted []string
}

func availableSensor() *fakeSensor {
	return &fakeSensor{
		capability: models.Capability{Available: true, Kind: models.BiometryFingerprint},
		publicKey:  "pub",
		promptOK:   true,
	}
}

func (f *fakeSensor) IsSensorAvailable(ctx context.Context) (models.Capability, error) {
	return f.capability, f.checkErr
}

func (f *fakeSensor) CreateKeys(ctx context.Context) (string, error) {
	f.created++
	return f.publicKey, f.createErr
}

func (f *fakeSensor) DeleteKeys(ctx context.Context) (bool, error) {
	f.deleted++
	return true, f.deleteErr
}

func (f *fakeSensor) SimplePrompt(ctx context.Context, message string) (bool, error) {
	f.prompted = append(f.prompted, message)
	return f.promptOK, f.promptErr
}

type fakeStore struct {
	mu         sync.Mutex
	data       map[secretstore.Key]string
	tiers      map[secretstore.Key]secretstore.Tier
	failPutAll bool
	failGet    bool
	failClr    map[secretstore.Key]bool

	beforePutAll func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data:    map[secretstore.Key]string{},
		tiers:   map[secretstore.Key]secretstore.Tier{},
		failClr: map[secretstore.Key]bool{},
	}
}

func (f *fakeStore) Put(ctx context.Context, key secretstore.Key, value string, tier secretstore.Tier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	f.tiers[key] = tier
	return nil
}

func (f *fakeStore) PutAll(ctx context.Context, entries []secretstore.Entry) error {
	if f.beforePutAll != nil {
		f.beforePutAll()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPutAll {
		return secretstore.ErrStorageUnavailable
	}
	for _, e := range entries {
		f.data[e.Key] = e.Value
		f.tiers[e.Key] = e.Tier
	}
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key secretstore.Key) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return "", false, secretstore.ErrStorageUnavailable
	}
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeStore) Clear(ctx context.Context, key secretstore.Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClr[key] {
		return secretstore.ErrStorageUnavailable
	}
	delete(f.data, key)
	return nil
}

type fakePrefs struct {
	mu         sync.Mutex
	data       map[string]string
	failSet    bool
	failDelete bool
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{data: map[string]string{}}
}

func (p *fakePrefs) Get(ctx context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.data[key]
	return v, ok, nil
}

func (p *fakePrefs) Set(ctx context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failSet {
		return errBoom
	}
	p.data[key] = value
	return nil
}

func (p *fakePrefs) Delete(ctx context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failDelete {
		return errBoom
	}
	delete(p.data, key)
	return nil
}

type fakeSessions struct {
	user    *models.User
	token   string
	commits []string
	bio     []bool
	err     error
}

func loggedInSessions() *fakeSessions {
	return &fakeSessions{user: &models.User{ID: 1, Email: "a@b.com", Name: "A"}, token: "tok0"}
}

func (s *fakeSessions) Commit(ctx context.Context, user *models.User, token string) (models.Session, error) {
	if s.err != nil {
		return models.Session{}, s.err
	}
	s.commits = append(s.commits, token)
	s.user, s.token = user, token
	return models.NewSession(user, token, false), nil
}

func (s *fakeSessions) SetBiometricsEnabled(enabled bool) models.Session {
	s.bio = append(s.bio, enabled)
	return models.NewSession(s.user, s.token, enabled)
}

type fakeAuth struct {
	email    string
	password string
	calls    int
	err      error
}

func (a *fakeAuth) Login(ctx context.Context, email, password string) (*client.LoginResult, error) {
	a.calls++
	a.email, a.password = email, password
	if a.err != nil {
		return nil, a.err
	}
	return &client.LoginResult{Token: "tok1", User: &models.User{ID: 1, Email: email, Name: "A"}}, nil
}

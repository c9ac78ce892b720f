package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/client/secretstore"
)

var errBoom = errors.New("boom")

// fakeStore is an in-memory secretstore.Store with per-operation failure
// switches and an operation log.
type fakeStore struct {
	mu      sync.Mutex
	data    map[secretstore.Key]string
	ops     []string
	failGet bool
	failPut bool
	failClr map[secretstore.Key]bool
	gate    chan struct{} // when set, Put blocks until it is closed

	getGate    chan struct{} // when set, Get blocks until it is closed
	getStarted chan struct{} // signalled when a Get starts waiting on getGate
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[secretstore.Key]string{}, failClr: map[secretstore.Key]bool{}}
}

func (f *fakeStore) Put(ctx context.Context, key secretstore.Key, value string, tier secretstore.Tier) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, "put:"+string(key))
	if f.failPut {
		return secretstore.ErrStorageUnavailable
	}
	f.data[key] = value
	return nil
}

func (f *fakeStore) PutAll(ctx context.Context, entries []secretstore.Entry) error {
	for _, e := range entries {
		if err := f.Put(ctx, e.Key, e.Value, e.Tier); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key secretstore.Key) (string, bool, error) {
	f.mu.Lock()
	gate, started := f.getGate, f.getStarted
	f.mu.Unlock()
	if gate != nil {
		select {
		case started <- struct{}{}:
		default:
		}
		<-gate
	}

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
	f.ops = append(f.ops, "clear:"+string(key))
	if f.failClr[key] {
		return secretstore.ErrStorageUnavailable
	}
	delete(f.data, key)
	return nil
}

func (f *fakeStore) has(key secretstore.Key) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (f *fakeStore) opLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

type fakePrefs struct {
	mu         sync.Mutex
	data       map[string]string
	failGet    bool
	failDelete bool
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{data: map[string]string{}}
}

func (p *fakePrefs) Get(ctx context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failGet {
		return "", false, errBoom
	}
	v, ok := p.data[key]
	return v, ok, nil
}

func (p *fakePrefs) Set(ctx context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
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

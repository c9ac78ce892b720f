package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
)

// MemoryRepository keeps users in process memory. Ids start at 1.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*User
	nextID  int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]*User), nextID: 1}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	key := normalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[key]; ok {
		return nil, common.ErrAlreadyExists
	}

	u := *user
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	r.nextID++
	r.byEmail[key] = &u

	out := u
	return &out, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	return &out, nil
}

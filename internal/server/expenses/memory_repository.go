package expenses

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
)

// MemoryRepository keeps expenses in process memory. Ids are never reused.
type MemoryRepository struct {
	mu     sync.RWMutex
	items  map[int64]Expense
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[int64]Expense), nextID: 1}
}

func (r *MemoryRepository) Create(ctx context.Context, e *Expense) (*Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := *e
	out.ID = r.nextID
	r.nextID++
	r.items[out.ID] = out
	return &out, nil
}

// ListByUser returns the user's expenses ordered by id.
func (r *MemoryRepository) ListByUser(ctx context.Context, userID int64) ([]Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Expense, 0)
	for _, e := range r.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &e, nil
}

func (r *MemoryRepository) Update(ctx context.Context, e *Expense) (*Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[e.ID]; !ok {
		return nil, common.ErrNotFound
	}
	out := *e
	r.items[e.ID] = out
	return &out, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

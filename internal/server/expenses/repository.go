package expenses

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, e *Expense) (*Expense, error)
	ListByUser(ctx context.Context, userID int64) ([]Expense, error)
	Get(ctx context.Context, id int64) (*Expense, error)
	Update(ctx context.Context, e *Expense) (*Expense, error)
	Delete(ctx context.Context, id int64) error
}

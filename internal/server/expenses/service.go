// Package expenses implements the per-user expense ledger of the
// development API.
package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, userID int64) ([]Expense, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create stores a new expense owned by userID. in.UserID is ignored.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (*Expense, error) {
	e, err := s.repo.Create(ctx, &Expense{
		UserID:    userID,
		Title:     in.Title,
		Amount:    in.Amount,
		Category:  in.Category,
		Date:      in.Date,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating expense: %w", err)
	}
	return e, nil
}

// Update replaces the writable fields. Expenses of other users are reported
// as common.ErrNotFound.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (*Expense, error) {
	e, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	e.Title = in.Title
	e.Amount = in.Amount
	e.Category = in.Category
	e.Date = in.Date
	e.UpdatedAt = &now

	return s.repo.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) owned(ctx context.Context, userID, id int64) (*Expense, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.UserID != userID {
		return nil, common.ErrNotFound
	}
	return e, nil
}

package client

import (
	"context"

	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
)

// LoginResult is a successful POST /auth/login response.
type LoginResult struct {
	Token string       `json:"token" validate:"required"`
	User  *models.User `json:"user" validate:"required"`
}

// Client is the transport-agnostic contract of the Authentication and
// Expense APIs.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string) error

	ListExpenses(ctx context.Context, token string, userID int64) ([]models.Expense, error)
	CreateExpense(ctx context.Context, token string, in models.ExpenseInput) (*models.Expense, error)
	UpdateExpense(ctx context.Context, token string, id int64, in models.ExpenseInput) (*models.Expense, error)
	DeleteExpense(ctx context.Context, token string, id int64) error

	Close() error
}

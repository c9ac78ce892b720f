package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/dmitrijs2005/expensekeeper/internal/client/models"
	"github.com/dmitrijs2005/expensekeeper/internal/logging"
)

// ExpenseService performs expense CRUD on behalf of the current session.
// A request rejected as unauthorized ends the session silently.
type ExpenseService interface {
	List(ctx context.Context) ([]models.Expense, error)
	Create(ctx context.Context, in models.ExpenseInput) (*models.Expense, error)
	Update(ctx context.Context, id int64, in models.ExpenseInput) (*models.Expense, error)
	Delete(ctx context.Context, id int64) error
}

type expenseService struct {
	client   client.Client
	auth     AuthService
	log      logging.Logger
	validate *validator.Validate
}

func NewExpenseService(c client.Client, auth AuthService, log logging.Logger) ExpenseService {
	return &expenseService{
		client:   c,
		auth:     auth,
		log:      log.With("component", "expenses"),
		validate: validator.New(),
	}
}

func (s *expenseService) current() (models.Session, error) {
	sess := s.auth.Session()
	if !sess.IsAuthenticated {
		return sess, ErrNotAuthenticated
	}
	return sess, nil
}

// check ends the session when the API no longer accepts the token.
func (s *expenseService) check(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		s.log.Info(ctx, "token rejected, logging out")
		s.auth.LogoutSilently(ctx)
	}
	return err
}

func (s *expenseService) List(ctx context.Context) ([]models.Expense, error) {
	sess, err := s.current()
	if err != nil {
		return nil, err
	}

	list, err := s.client.ListExpenses(ctx, sess.Token, sess.UserID())
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return list, nil
}

func (s *expenseService) Create(ctx context.Context, in models.ExpenseInput) (*models.Expense, error) {
	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	in.UserID = sess.UserID()
	e, err := s.client.CreateExpense(ctx, sess.Token, in)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return e, nil
}

func (s *expenseService) Update(ctx context.Context, id int64, in models.ExpenseInput) (*models.Expense, error) {
	sess, err := s.current()
	if err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	in.UserID = 0
	e, err := s.client.UpdateExpense(ctx, sess.Token, id, in)
	if err != nil {
		return nil, s.check(ctx, err)
	}
	return e, nil
}

func (s *expenseService) Delete(ctx context.Context, id int64) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	return s.check(ctx, s.client.DeleteExpense(ctx, sess.Token, id))
}

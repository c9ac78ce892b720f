// Package users implements registration and password login of the
// development API.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/server/auth"
)

type Service struct {
	repo             Repository
	jwtSecret        []byte
	validityDuration time.Duration
	hashCost         int
}

type Option func(*Service)

// WithHashCost sets the bcrypt cost of stored passwords.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

func NewService(repo Repository, secretKey string, validity time.Duration, opts ...Option) *Service {
	s := &Service{
		repo:             repo,
		jwtSecret:        []byte(secretKey),
		validityDuration: validity,
		hashCost:         bcrypt.DefaultCost,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Register creates an account. Duplicate emails return common.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login checks the password and issues a bearer token. Unknown emails and
// wrong passwords both return common.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrUnauthorized
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.validityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	return user, token, nil
}

// UserID verifies a bearer token.
func (s *Service) UserID(token string) (int64, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

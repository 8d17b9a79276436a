package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/pkg/auth"
)

// UserStore is the users collection surface the identity workflow needs.
type UserStore interface {
	Upsert(ctx context.Context, email string, fields map[string]interface{}) (models.UpsertResult, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	All(ctx context.Context) ([]models.User, error)
	PromoteToAdmin(ctx context.Context, email string) error
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// UserService implements login-upsert, role promotion, and the admin check.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Login merges the submitted fields into the user record (insert-if-absent)
// and issues a fresh one-hour token, regardless of any prior session state.
func (s *UserService) Login(ctx context.Context, email string, fields map[string]interface{}) (models.UpsertResult, string, error) {
	result, err := s.users.Upsert(ctx, email, fields)
	if err != nil {
		return models.UpsertResult{}, "", err
	}

	token, err := auth.IssueToken(email)
	if err != nil {
		return models.UpsertResult{}, "", fmt.Errorf("issue token for %s: %w", email, err)
	}

	return result, token, nil
}

// Promote grants the admin role to email. Idempotent, admin-gated at the
// route level.
func (s *UserService) Promote(ctx context.Context, email string) error {
	return s.users.PromoteToAdmin(ctx, email)
}

// IsAdmin reports whether email owns the admin role; unknown users are not
// admins.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	return s.users.IsAdmin(ctx, email)
}

// List returns every user record.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.All(ctx)
}

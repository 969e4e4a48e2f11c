package user

import (
	"context"
	"errors"
	"fmt"

	"introcall/database"
	userRepo "introcall/database/repository/user"
	"introcall/models"
)

// GetUserByID returns the full user record, credentials included.
func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers retrieves users for admin access, excluding sensitive fields.
func (s *DefaultUserService) ListUsers(ctx context.Context, role string, limit, skip int64) ([]models.User, error) {
	users, err := s.Repo.List(ctx, userRepo.UserSearchCriteria{Role: role, Limit: limit, Skip: skip})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	for i := range users {
		users[i] = users[i].SafeView()
	}
	return users, nil
}

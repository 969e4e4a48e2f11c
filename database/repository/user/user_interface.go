package userRepo

import (
	"context"

	"introcall/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user. A taken email yields database.ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by their unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail returns nil, nil when no user has the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns users, optionally filtered by role, newest first.
	List(ctx context.Context, criteria UserSearchCriteria) ([]models.User, error)
	// Update replaces the mutable profile fields.
	Update(ctx context.Context, user *models.User) error
	// SetGoogleToken stores the OAuth token and the calendar it grants access to.
	SetGoogleToken(ctx context.Context, id string, token *models.OAuthToken, calendarID, timeZone string) error
	EnsureIndexes(ctx context.Context) error
}

// UserSearchCriteria holds parameters for listing users.
type UserSearchCriteria struct {
	Role  string
	Limit int64
	Skip  int64
}

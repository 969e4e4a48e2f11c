package callRepo

import (
	"context"

	"introcall/models"
)

// CallRepository defines methods for call data access.
type CallRepository interface {
	Create(ctx context.Context, call *models.Call) error
	GetByID(ctx context.Context, id string) (*models.Call, error)
	// ListByParticipant returns calls the user hosts, booked, or was invited to by email.
	ListByParticipant(ctx context.Context, userID, email string) ([]models.Call, error)
	// UpdateStatus moves a call from one status to another only if it still has from.
	UpdateStatus(ctx context.Context, id, from, to string) error
	EnsureIndexes(ctx context.Context) error
}

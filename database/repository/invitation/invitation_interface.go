package invitationRepo

import (
	"context"
	"time"

	"introcall/models"
)

// InvitationRepository defines methods for invitation data access.
type InvitationRepository interface {
	Create(ctx context.Context, inv *models.Invitation) error
	GetByID(ctx context.Context, id string) (*models.Invitation, error)
	ListBySalesRep(ctx context.Context, salesRepID string) ([]models.Invitation, error)
	ListByEmail(ctx context.Context, email string) ([]models.Invitation, error)
	// UpdateStatus moves an invitation from one status to another only if it still has
	// the from status. callID is recorded when non-empty.
	UpdateStatus(ctx context.Context, id, from, to, callID string) error
	// ListExpired returns pending invitations whose expiry is at or before now.
	ListExpired(ctx context.Context, now time.Time) ([]models.Invitation, error)
	EnsureIndexes(ctx context.Context) error
}

package invitation

import (
	"context"
	"errors"
	"time"

	invitationRepo "introcall/database/repository/invitation"
	userRepo "introcall/database/repository/user"
	"introcall/models"
	"introcall/services/notification"
	"introcall/services/tasks"
)

var (
	ErrNotFound             = errors.New("invitation not found")
	ErrForbidden            = errors.New("not allowed to act on this invitation")
	ErrInvalidTransition    = errors.New("invitation is no longer pending")
	ErrClosed               = errors.New("invitation is closed")
	ErrSelfInvite           = errors.New("cannot invite yourself")
	ErrCalendarNotConnected = errors.New("connect a google calendar before sending invitations")
)

type InvitationService interface {
	Create(ctx context.Context, rep *models.User, req models.CreateInvitationRequest) (*models.Invitation, error)
	ListForUser(ctx context.Context, u *models.User) ([]models.Invitation, error)
	Get(ctx context.Context, u *models.User, id string) (*models.Invitation, error)
	// GetOpen is Get restricted to pending, unexpired invitations.
	GetOpen(ctx context.Context, u *models.User, id string) (*models.Invitation, error)
	Decline(ctx context.Context, u *models.User, id string) (*models.Invitation, error)
	Cancel(ctx context.Context, u *models.User, id string) (*models.Invitation, error)
	MarkAccepted(ctx context.Context, id, callID string) error
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
	SendInvitationEmail(ctx context.Context, id string) error
}

// DefaultInvitationService is the production implementation.
type DefaultInvitationService struct {
	Repo     invitationRepo.InvitationRepository
	Users    userRepo.UserRepository
	Tasks    tasks.Enqueuer
	Notifier notification.NotificationService

	TTL             time.Duration
	DefaultDuration int
	Now             func() time.Time
}

func NewDefaultInvitationService(
	repo invitationRepo.InvitationRepository,
	users userRepo.UserRepository,
	enqueuer tasks.Enqueuer,
	notifier notification.NotificationService,
	ttl time.Duration,
	defaultDuration int,
) *DefaultInvitationService {
	return &DefaultInvitationService{
		Repo:            repo,
		Users:           users,
		Tasks:           enqueuer,
		Notifier:        notifier,
		TTL:             ttl,
		DefaultDuration: defaultDuration,
		Now:             time.Now,
	}
}

func (s *DefaultInvitationService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

package invitation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"introcall/database"
	"introcall/models"
	"introcall/services/availability"
	"introcall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTTL      = 7 * 24 * time.Hour
	defaultDuration = 30
)

// Create stores a pending invitation and queues its e-mail.
func (s *DefaultInvitationService) Create(ctx context.Context, rep *models.User, req models.CreateInvitationRequest) (*models.Invitation, error) {
	if rep.Role != models.RoleSalesRep {
		return nil, ErrForbidden
	}
	if !rep.GoogleConnected() {
		return nil, ErrCalendarNotConnected
	}
	email := strings.ToLower(strings.TrimSpace(req.DecisionMakerEmail))
	if email == rep.Email {
		return nil, ErrSelfInvite
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = s.DefaultDuration
	}
	if duration == 0 {
		duration = defaultDuration
	}
	if duration < 15 || duration > 120 {
		return nil, availability.NewValidationError(fmt.Sprintf("durationMinutes must be between 15 and 120, got %d", duration))
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	inv := &models.Invitation{
		ID:                 uuid.New().String(),
		SalesRepID:         rep.ID,
		SalesRepName:       rep.Name,
		DecisionMakerEmail: email,
		DecisionMakerName:  strings.TrimSpace(req.DecisionMakerName),
		Message:            req.Message,
		DurationMinutes:    duration,
		Status:             models.InvitationPending,
		ExpiresAt:          s.now().Add(ttl),
	}
	if err := s.Repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	logger := utils.GetLogger().With(zap.String("invitationID", inv.ID), zap.String("salesRepID", rep.ID))
	logger.Info("Invitation created")
	if s.Tasks != nil {
		if err := s.Tasks.EnqueueInvitationEmail(ctx, inv.ID); err != nil {
			logger.Warn("Failed to enqueue invitation email", zap.Error(err))
		}
	}
	return inv, nil
}

// ListForUser returns the invitations a rep sent or a decision maker received.
func (s *DefaultInvitationService) ListForUser(ctx context.Context, u *models.User) ([]models.Invitation, error) {
	if u.Role == models.RoleSalesRep {
		return s.Repo.ListBySalesRep(ctx, u.ID)
	}
	return s.Repo.ListByEmail(ctx, u.Email)
}

// Get returns an invitation visible to u.
func (s *DefaultInvitationService) Get(ctx context.Context, u *models.User, id string) (*models.Invitation, error) {
	inv, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !canView(u, inv) {
		return nil, ErrForbidden
	}
	return inv, nil
}

// GetOpen returns an invitation visible to u that can still be booked.
func (s *DefaultInvitationService) GetOpen(ctx context.Context, u *models.User, id string) (*models.Invitation, error) {
	inv, err := s.Get(ctx, u, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvitationPending || !inv.ExpiresAt.After(s.now()) {
		return nil, ErrClosed
	}
	return inv, nil
}

// Decline lets the invited decision maker turn the invitation down.
func (s *DefaultInvitationService) Decline(ctx context.Context, u *models.User, id string) (*models.Invitation, error) {
	inv, err := s.Get(ctx, u, id)
	if err != nil {
		return nil, err
	}
	if inv.DecisionMakerEmail != u.Email {
		return nil, ErrForbidden
	}
	if err := s.transition(ctx, inv, models.InvitationDeclined, ""); err != nil {
		return nil, err
	}
	return inv, nil
}

// Cancel lets the sending rep withdraw the invitation.
func (s *DefaultInvitationService) Cancel(ctx context.Context, u *models.User, id string) (*models.Invitation, error) {
	inv, err := s.Get(ctx, u, id)
	if err != nil {
		return nil, err
	}
	if inv.SalesRepID != u.ID && !u.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.transition(ctx, inv, models.InvitationCancelled, ""); err != nil {
		return nil, err
	}
	return inv, nil
}

// MarkAccepted records the call booked for an invitation.
func (s *DefaultInvitationService) MarkAccepted(ctx context.Context, id, callID string) error {
	inv, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.transition(ctx, inv, models.InvitationAccepted, callID)
}

// ExpireOverdue moves every overdue pending invitation to expired and returns how
// many it moved. Invitations answered concurrently are skipped.
func (s *DefaultInvitationService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.Repo.ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range overdue {
		err := s.transition(ctx, &overdue[i], models.InvitationExpired, "")
		if errors.Is(err, ErrInvalidTransition) {
			continue
		}
		if err != nil {
			return expired, err
		}
		expired++
	}
	if expired > 0 {
		utils.GetLogger().Info("Expired invitations", zap.Int("count", expired))
	}
	return expired, nil
}

// SendInvitationEmail mails a still pending invitation; others are skipped.
func (s *DefaultInvitationService) SendInvitationEmail(ctx context.Context, id string) error {
	inv, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if inv.Status != models.InvitationPending {
		return nil
	}
	rep, err := s.Users.GetByID(ctx, inv.SalesRepID)
	if err != nil {
		return fmt.Errorf("load sales rep %s: %w", inv.SalesRepID, err)
	}
	return s.Notifier.SendInvitation(ctx, inv, rep)
}

func (s *DefaultInvitationService) transition(ctx context.Context, inv *models.Invitation, to, callID string) error {
	if !models.CanTransition(inv.Status, to) {
		return ErrInvalidTransition
	}
	err := s.Repo.UpdateStatus(ctx, inv.ID, inv.Status, to, callID)
	if errors.Is(err, database.ErrStatusConflict) {
		return ErrInvalidTransition
	}
	if err != nil {
		return err
	}
	inv.Status = to
	if callID != "" {
		inv.CallID = callID
	}
	inv.UpdatedAt = s.now()
	return nil
}

func canView(u *models.User, inv *models.Invitation) bool {
	return u.IsAdmin() || inv.SalesRepID == u.ID || inv.DecisionMakerEmail == u.Email
}

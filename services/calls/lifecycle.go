package calls

import (
	"context"
	"errors"
	"fmt"

	"introcall/database"
	"introcall/models"
	"introcall/services/availability"
	"introcall/utils"

	"go.uber.org/zap"
)

// ListCalls returns the calls u takes part in.
func (s *DefaultCallService) ListCalls(ctx context.Context, u *models.User) ([]models.Call, error) {
	return s.Calls.ListByParticipant(ctx, u.ID, u.Email)
}

// GetCall returns a call visible to u.
func (s *DefaultCallService) GetCall(ctx context.Context, u *models.User, id string) (*models.Call, error) {
	call, err := s.Calls.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrCallNotFound
	}
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin() && !call.HasParticipant(u.ID, u.Email) {
		return nil, ErrForbidden
	}
	return call, nil
}

// CancelCall removes the calendar event and marks the call cancelled.
func (s *DefaultCallService) CancelCall(ctx context.Context, u *models.User, id string) (*models.Call, error) {
	call, err := s.GetCall(ctx, u, id)
	if err != nil {
		return nil, err
	}
	if call.Status != models.CallScheduled {
		return nil, ErrInvalidTransition
	}
	rep, err := s.Users.GetByID(ctx, call.SalesRepID)
	if err != nil {
		return nil, fmt.Errorf("load sales rep %s: %w", call.SalesRepID, err)
	}
	logger := utils.GetLogger().With(zap.String("callID", call.ID), zap.String("eventRef", call.EventRef))

	provider, err := s.Calendars.ForUser(ctx, rep)
	switch {
	case errors.Is(err, ErrCalendarNotConnected):
		logger.Warn("Cancelling call without removing calendar event, calendar disconnected")
	case err != nil:
		return nil, err
	default:
		pctx, cancel := s.providerContext(ctx)
		err := provider.DeleteEvent(pctx, call.CalendarID, call.EventRef)
		cancel()
		if err != nil {
			return nil, providerWriteError("delete event", err)
		}
	}

	if err := s.setStatus(ctx, call, models.CallCancelled); err != nil {
		return nil, err
	}
	if s.Notifier != nil {
		if err := s.Notifier.SendCallCancelled(ctx, call, rep); err != nil {
			logger.Warn("Failed to send cancellation", zap.Error(err))
		}
	}
	logger.Info("Call cancelled", zap.String("by", u.ID))
	return call, nil
}

// CompleteCall marks a started call as completed. Only the sales rep or an admin
// may do so.
func (s *DefaultCallService) CompleteCall(ctx context.Context, u *models.User, id string) (*models.Call, error) {
	call, err := s.GetCall(ctx, u, id)
	if err != nil {
		return nil, err
	}
	if call.SalesRepID != u.ID && !u.IsAdmin() {
		return nil, ErrForbidden
	}
	if call.Status != models.CallScheduled || s.now().Before(call.Start) {
		return nil, ErrInvalidTransition
	}
	if err := s.setStatus(ctx, call, models.CallCompleted); err != nil {
		return nil, err
	}
	return call, nil
}

// SendCallReminder mails the reminder of a call that is still scheduled and has
// not started.
func (s *DefaultCallService) SendCallReminder(ctx context.Context, callID string) error {
	call, err := s.Calls.GetByID(ctx, callID)
	if errors.Is(err, database.ErrNotFound) {
		return ErrCallNotFound
	}
	if err != nil {
		return err
	}
	if call.Status != models.CallScheduled || !call.Start.After(s.now()) {
		return nil
	}
	rep, err := s.Users.GetByID(ctx, call.SalesRepID)
	if err != nil {
		return fmt.Errorf("load sales rep %s: %w", call.SalesRepID, err)
	}
	return s.Notifier.SendCallReminder(ctx, call, rep)
}

func (s *DefaultCallService) setStatus(ctx context.Context, call *models.Call, to string) error {
	err := s.Calls.UpdateStatus(ctx, call.ID, call.Status, to)
	if errors.Is(err, database.ErrStatusConflict) {
		return ErrInvalidTransition
	}
	if err != nil {
		return err
	}
	call.Status = to
	call.UpdatedAt = s.now()
	return nil
}

// providerWriteError classifies a failed calendar write.
func providerWriteError(op string, err error) error {
	var rejection *availability.ProviderRejection
	if errors.As(err, &rejection) {
		return &availability.SchedulingError{Kind: availability.KindBookingFailed, Detail: rejection.Reason, Err: err}
	}
	return &availability.SchedulingError{
		Kind:   availability.KindProviderUnavailable,
		Detail: fmt.Sprintf("%s: %v", op, err),
		Err:    err,
	}
}

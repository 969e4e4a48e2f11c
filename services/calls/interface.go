// Package calls ties availability, booking and persistence together for
// introductory calls.
package calls

import (
	"context"
	"errors"
	"time"

	callRepo "introcall/database/repository/call"
	userRepo "introcall/database/repository/user"
	"introcall/models"
	"introcall/services/availability"
	"introcall/services/booking"
	"introcall/services/invitation"
	"introcall/services/notification"
	"introcall/services/session"
	"introcall/services/tasks"
)

var (
	ErrSessionNotFound      = errors.New("availability session not found or expired")
	ErrSlotNotOffered       = errors.New("slot was not offered in this session")
	ErrCallNotFound         = errors.New("call not found")
	ErrForbidden            = errors.New("not allowed to act on this call")
	ErrInvalidTransition    = errors.New("call cannot change to that status")
	ErrCalendarNotConnected = errors.New("sales rep has not connected a google calendar")
)

// CalendarProvider is everything the call flow needs from one user's calendar.
type CalendarProvider interface {
	availability.EventLister
	availability.TimeZoneResolver
	booking.EventCreator
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// CalendarFactory opens the calendar of a user.
type CalendarFactory interface {
	ForUser(ctx context.Context, u *models.User) (CalendarProvider, error)
}

type CallService interface {
	GetAvailability(ctx context.Context, requester *models.User, req models.AvailabilityRequest) (*models.AvailabilityResponse, error)
	Preview(req models.PreviewRequest) ([]availability.CandidateSlot, error)
	BookCall(ctx context.Context, requester *models.User, req models.ConfirmBookingRequest) (*models.ConfirmBookingResponse, error)
	ListCalls(ctx context.Context, u *models.User) ([]models.Call, error)
	GetCall(ctx context.Context, u *models.User, id string) (*models.Call, error)
	CancelCall(ctx context.Context, u *models.User, id string) (*models.Call, error)
	CompleteCall(ctx context.Context, u *models.User, id string) (*models.Call, error)
	SendCallReminder(ctx context.Context, callID string) error
}

// DefaultCallService is the production implementation.
type DefaultCallService struct {
	Calls       callRepo.CallRepository
	Users       userRepo.UserRepository
	Invitations invitation.InvitationService
	Sessions    session.Store
	Calendars   CalendarFactory
	Tasks       tasks.Enqueuer
	Notifier    notification.NotificationService

	Hours           availability.WorkingHours
	Location        *time.Location
	DefaultDuration int
	ProviderTimeout time.Duration
	Now             func() time.Time
}

func (s *DefaultCallService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *DefaultCallService) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.ProviderTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.ProviderTimeout)
}

func (s *DefaultCallService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"introcall/services/availability"

	"github.com/google/uuid"
)

const (
	maxSubjectLength     = 200
	maxDescriptionLength = 4000
	maxAttendees         = 20
)

// EventCreator writes an event to a calendar.
type EventCreator interface {
	CreateEvent(ctx context.Context, calendarID string, body availability.EventBody) (availability.ProviderEvent, error)
}

// BookingRequest is consumed exactly once by Confirm.
type BookingRequest struct {
	CalendarID     string
	AttendeeEmails []string
	Slot           availability.CandidateSlot
	Subject        string
	Description    string
	TimeZone       string
}

// Confirmation is what the provider actually booked.
type Confirmation struct {
	EventRef       string    `json:"eventRef"`
	ConfirmedStart time.Time `json:"confirmedStart"`
	ConfirmedEnd   time.Time `json:"confirmedEnd"`
	ConferenceLink string    `json:"conferenceLink,omitempty"`
}

// BookingConfirmation turns a selected slot into a calendar event.
type BookingConfirmation interface {
	Confirm(ctx context.Context, req BookingRequest) (*Confirmation, error)
}

// DefaultBookingConfirmation implements BookingConfirmation against an EventCreator.
type DefaultBookingConfirmation struct {
	Calendar EventCreator
}

// NewBookingConfirmation returns a confirmation step writing to creator.
func NewBookingConfirmation(creator EventCreator) *DefaultBookingConfirmation {
	return &DefaultBookingConfirmation{Calendar: creator}
}

// Confirm issues a single create call. On SlotMismatch the returned Confirmation is
// non-nil and describes the event the provider created, so the caller can remove it.
func (bc *DefaultBookingConfirmation) Confirm(ctx context.Context, req BookingRequest) (*Confirmation, error) {
	attendees, err := NormalizeAttendees(req.AttendeeEmails)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	calendarID := req.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	body := availability.EventBody{
		Subject:             strings.TrimSpace(req.Subject),
		Description:         req.Description,
		AttendeeEmails:      attendees,
		Start:               req.Slot.Start,
		End:                 req.Slot.End,
		TimeZone:            req.TimeZone,
		ConferenceRequestID: uuid.New().String(),
	}

	created, err := bc.Calendar.CreateEvent(ctx, calendarID, body)
	if err != nil {
		var rejection *availability.ProviderRejection
		if errors.As(err, &rejection) {
			return nil, &availability.SchedulingError{Kind: availability.KindBookingFailed, Detail: rejection.Reason, Err: err}
		}
		return nil, &availability.SchedulingError{
			Kind:   availability.KindProviderUnavailable,
			Detail: fmt.Sprintf("create event: %v", err),
			Err:    err,
		}
	}
	if created.ID == "" {
		return nil, &availability.SchedulingError{Kind: availability.KindBookingFailed, Detail: "provider returned an event without an id"}
	}

	conf := &Confirmation{EventRef: created.ID, ConferenceLink: created.ConferenceLink}
	if created.Start == nil || created.End == nil {
		return conf, &availability.SchedulingError{
			Kind:   availability.KindSlotMismatch,
			Detail: fmt.Sprintf("event %s has no confirmed start and end", created.ID),
		}
	}
	conf.ConfirmedStart = *created.Start
	conf.ConfirmedEnd = *created.End

	if !conf.ConfirmedStart.Equal(req.Slot.Start) || !conf.ConfirmedEnd.Equal(req.Slot.End) {
		return conf, &availability.SchedulingError{
			Kind: availability.KindSlotMismatch,
			Detail: fmt.Sprintf("requested %s-%s, provider confirmed %s-%s (event %s)",
				req.Slot.Start.Format(time.RFC3339), req.Slot.End.Format(time.RFC3339),
				conf.ConfirmedStart.Format(time.RFC3339), conf.ConfirmedEnd.Format(time.RFC3339), created.ID),
		}
	}
	return conf, nil
}

// NormalizeAttendees trims, lower-cases, validates and de-duplicates addresses,
// keeping first-seen order.
func NormalizeAttendees(emails []string) ([]string, error) {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, raw := range emails {
		e := strings.ToLower(strings.TrimSpace(raw))
		if e == "" {
			continue
		}
		addr, err := mail.ParseAddress(e)
		if err != nil || addr.Address != e {
			return nil, availability.NewValidationError(fmt.Sprintf("invalid attendee email %q", raw))
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, availability.NewValidationError("at least one attendee email is required")
	}
	if len(out) > maxAttendees {
		return nil, availability.NewValidationError(fmt.Sprintf("at most %d attendees are allowed", maxAttendees))
	}
	return out, nil
}

func validateRequest(req BookingRequest) error {
	if !req.Slot.Valid() {
		return availability.NewValidationError("slot end must equal start plus durationMinutes")
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return availability.NewValidationError("subject is required")
	}
	if len(subject) > maxSubjectLength {
		return availability.NewValidationError(fmt.Sprintf("subject exceeds %d characters", maxSubjectLength))
	}
	if len(req.Description) > maxDescriptionLength {
		return availability.NewValidationError(fmt.Sprintf("description exceeds %d characters", maxDescriptionLength))
	}
	return nil
}

package calls

import (
	"context"
	"errors"
	"fmt"

	"introcall/database"
	"introcall/models"
	"introcall/services/availability"
	"introcall/services/booking"
	"introcall/services/invitation"
	"introcall/services/session"
	"introcall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookCall books one slot surfaced by an earlier availability query and records
// the call.
func (s *DefaultCallService) BookCall(ctx context.Context, requester *models.User, req models.ConfirmBookingRequest) (*models.ConfirmBookingResponse, error) {
	sess, err := s.Sessions.Get(ctx, req.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.RequesterID != requester.ID {
		return nil, ErrSessionNotFound
	}
	if req.CalendarID != "" && req.CalendarID != sess.CalendarID {
		return nil, availability.NewValidationError("calendarId does not match the availability session")
	}

	slot, err := req.Slot()
	if err != nil {
		return nil, err
	}
	if !sess.Offers(slot) {
		return nil, ErrSlotNotOffered
	}
	if !slot.Start.After(s.now()) {
		return nil, availability.NewValidationError("slot has already started")
	}

	var inv *models.Invitation
	if sess.InvitationID != "" {
		inv, err = s.Invitations.GetOpen(ctx, requester, sess.InvitationID)
		if err != nil {
			return nil, err
		}
	}
	rep, err := s.Users.GetByID(ctx, sess.SalesRepID)
	if err != nil {
		return nil, fmt.Errorf("load sales rep %s: %w", sess.SalesRepID, err)
	}
	provider, err := s.Calendars.ForUser(ctx, rep)
	if err != nil {
		return nil, err
	}

	dmEmail := decisionMakerEmail(requester, rep, inv, req.AttendeeEmails)
	attendees := append([]string{rep.Email}, req.AttendeeEmails...)
	if dmEmail != "" {
		attendees = append(attendees, dmEmail)
	}

	logger := utils.GetLogger().With(
		zap.String("sessionID", sess.ID),
		zap.String("salesRepID", rep.ID),
		zap.Time("slotStart", slot.Start))

	pctx, cancel := s.providerContext(ctx)
	defer cancel()

	conf, err := booking.NewBookingConfirmation(provider).Confirm(pctx, booking.BookingRequest{
		CalendarID:     sess.CalendarID,
		AttendeeEmails: attendees,
		Slot:           slot,
		Subject:        req.Subject,
		Description:    req.Description,
		TimeZone:       sess.TimeZone,
	})
	if err != nil {
		if availability.KindOf(err) == availability.KindSlotMismatch && conf != nil {
			s.removeEvent(ctx, provider, sess.CalendarID, conf.EventRef, logger)
		}
		logger.Warn("Booking failed", zap.Error(err))
		return nil, err
	}

	call := &models.Call{
		ID:                 uuid.New().String(),
		SalesRepID:         rep.ID,
		DecisionMakerEmail: dmEmail,
		BookedBy:           requester.ID,
		CalendarID:         sess.CalendarID,
		EventRef:           conf.EventRef,
		ConferenceLink:     conf.ConferenceLink,
		Subject:            req.Subject,
		Start:              conf.ConfirmedStart,
		End:                conf.ConfirmedEnd,
		DurationMinutes:    slot.DurationMinutes,
		Status:             models.CallScheduled,
	}
	if inv != nil {
		call.InvitationID = inv.ID
	}
	if err := s.Calls.Create(ctx, call); err != nil {
		if inv != nil && errors.Is(err, database.ErrDuplicate) {
			// another call already holds this invitation
			s.removeEvent(ctx, provider, sess.CalendarID, conf.EventRef, logger)
			s.invalidateSession(ctx, sess.ID, logger)
			return nil, invitation.ErrClosed
		}
		logger.Error("Calendar event created but call not stored",
			zap.String("eventRef", conf.EventRef), zap.Error(err))
		return nil, fmt.Errorf("store call for event %s: %w", conf.EventRef, err)
	}
	logger = logger.With(zap.String("callID", call.ID))
	s.invalidateSession(ctx, sess.ID, logger)

	if inv != nil {
		if err := s.Invitations.MarkAccepted(ctx, inv.ID, call.ID); err != nil {
			logger.Error("Call stored but invitation not accepted", zap.String("invitationID", inv.ID), zap.Error(err))
			return nil, fmt.Errorf("accept invitation %s for call %s: %w", inv.ID, call.ID, err)
		}
	}
	if s.Tasks != nil {
		if err := s.Tasks.EnqueueCallReminder(ctx, call); err != nil {
			logger.Warn("Failed to schedule reminder", zap.Error(err))
		}
	}
	logger.Info("Call booked", zap.String("eventRef", call.EventRef))

	return &models.ConfirmBookingResponse{
		EventRef:       conf.EventRef,
		ConfirmedStart: conf.ConfirmedStart,
		ConfirmedEnd:   conf.ConfirmedEnd,
		ConferenceLink: conf.ConferenceLink,
		Call:           call,
	}, nil
}

func (s *DefaultCallService) invalidateSession(ctx context.Context, id string, logger *zap.Logger) {
	if err := s.Sessions.Invalidate(ctx, id); err != nil {
		logger.Warn("Failed to invalidate availability session", zap.Error(err))
	}
}

// removeEvent deletes an event that must not stay on the calendar.
func (s *DefaultCallService) removeEvent(ctx context.Context, provider CalendarProvider, calendarID, eventID string, logger *zap.Logger) {
	dctx, cancel := s.providerContext(context.WithoutCancel(ctx))
	defer cancel()
	if err := provider.DeleteEvent(dctx, calendarID, eventID); err != nil {
		logger.Error("Failed to remove calendar event", zap.String("eventRef", eventID), zap.Error(err))
		return
	}
	logger.Info("Removed calendar event", zap.String("eventRef", eventID))
}

func decisionMakerEmail(requester, rep *models.User, inv *models.Invitation, extra []string) string {
	if inv != nil {
		return inv.DecisionMakerEmail
	}
	if requester.ID != rep.ID {
		return requester.Email
	}
	for _, e := range extra {
		normalized, err := booking.NormalizeAttendees([]string{e})
		if err == nil && normalized[0] != rep.Email {
			return normalized[0]
		}
	}
	return ""
}

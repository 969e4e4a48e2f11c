package calls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"introcall/models"
	"introcall/services/availability"
	"introcall/services/session"
	"introcall/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const primaryCalendar = "primary"

// GetAvailability computes the open slots on the sales rep's calendar and records
// them in an availability session. Decision makers query through an invitation;
// sales reps may query their own calendar directly.
func (s *DefaultCallService) GetAvailability(ctx context.Context, requester *models.User, req models.AvailabilityRequest) (*models.AvailabilityResponse, error) {
	var (
		rep *models.User
		inv *models.Invitation
		err error
	)
	if req.InvitationID != "" {
		inv, err = s.Invitations.GetOpen(ctx, requester, req.InvitationID)
		if err != nil {
			return nil, err
		}
		rep, err = s.Users.GetByID(ctx, inv.SalesRepID)
		if err != nil {
			return nil, fmt.Errorf("load sales rep %s: %w", inv.SalesRepID, err)
		}
		req.DurationMinutes = inv.DurationMinutes
	} else {
		if requester.Role != models.RoleSalesRep {
			return nil, availability.NewValidationError("invitationId is required")
		}
		rep = requester
	}

	calendarID := rep.CalendarID
	if inv == nil && req.CalendarID != "" {
		calendarID = req.CalendarID
	}
	if calendarID == "" {
		calendarID = primaryCalendar
	}

	q, err := req.Query(calendarID, s.DefaultDuration)
	if err != nil {
		return nil, err
	}
	if err := availability.ValidateQuery(q); err != nil {
		return nil, err
	}

	provider, err := s.Calendars.ForUser(ctx, rep)
	if err != nil {
		return nil, err
	}

	pctx, cancel := s.providerContext(ctx)
	defer cancel()

	core := availability.NewService(provider)
	core.Zones = provider
	core.Hours = s.Hours
	core.Location = s.userLocation(rep)
	core.Now = s.now
	loc, err := core.ResolveLocation(pctx, calendarID)
	if err != nil {
		return nil, err
	}
	core.Zones = nil
	core.Location = loc

	slots, err := core.GetAvailability(pctx, q)
	if err != nil {
		return nil, err
	}

	sess := &models.AvailabilitySession{
		ID:          s.sessionID(ctx, requester, req.SessionID),
		RequesterID: requester.ID,
		SalesRepID:  rep.ID,
		CalendarID:  calendarID,
		TimeZone:    loc.String(),
		Slots:       slots,
		CreatedAt:   s.now(),
	}
	if inv != nil {
		sess.InvitationID = inv.ID
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	utils.GetLogger().Debug("Availability computed",
		zap.String("sessionID", sess.ID),
		zap.String("salesRepID", rep.ID),
		zap.Int("slots", len(slots)))

	return &models.AvailabilityResponse{SessionID: sess.ID, TimeZone: sess.TimeZone, Slots: slots}, nil
}

// Preview renders slots on the same generator and filter with client supplied busy
// ranges and no calendar call.
func (s *DefaultCallService) Preview(req models.PreviewRequest) ([]availability.CandidateSlot, error) {
	q, err := models.AvailabilityRequest{
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DurationMinutes: req.DurationMinutes,
	}.Query("", s.DefaultDuration)
	if err != nil {
		return nil, err
	}
	busy := make([]availability.TimeInterval, 0, len(req.Busy))
	for _, b := range req.Busy {
		iv, err := availability.NewTimeInterval(b.Start, b.End)
		if err != nil {
			return nil, availability.NewValidationError(err.Error())
		}
		busy = append(busy, iv)
	}

	core := availability.NewService(nil)
	core.Hours = s.Hours
	core.Location = s.location()
	core.Now = s.now
	return core.Preview(q, busy)
}

// sessionID keeps the caller's session id when it is theirs.
func (s *DefaultCallService) sessionID(ctx context.Context, requester *models.User, requested string) string {
	if requested != "" {
		existing, err := s.Sessions.Get(ctx, requested)
		if err == nil && existing.RequesterID == requester.ID {
			return existing.ID
		}
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			utils.GetLogger().Warn("Failed to load availability session", zap.String("sessionID", requested), zap.Error(err))
		}
	}
	return uuid.New().String()
}

func (s *DefaultCallService) userLocation(u *models.User) *time.Location {
	if u.TimeZone != "" {
		if loc, err := time.LoadLocation(u.TimeZone); err == nil {
			return loc
		}
	}
	return s.location()
}

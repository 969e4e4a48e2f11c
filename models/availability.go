package models

import (
	"time"

	"introcall/services/availability"
)

// AvailabilityRequest asks for bookable slots. Either InvitationID (decision makers) or
// CalendarID (sales reps, their own calendar) selects the calendar.
type AvailabilityRequest struct {
	InvitationID    string `json:"invitationId"`
	CalendarID      string `json:"calendarId"`
	StartDate       string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate         string `json:"endDate" binding:"required,datetime=2006-01-02"`
	DurationMinutes int    `json:"durationMinutes" binding:"omitempty,min=5,max=480"`
	SessionID       string `json:"sessionId"`
}

// Query parses the dates and returns the core query. Validation of the range and
// duration happens in the core.
func (r AvailabilityRequest) Query(calendarID string, defaultDuration int) (availability.Query, error) {
	start, err := time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return availability.Query{}, availability.NewValidationError("startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return availability.Query{}, availability.NewValidationError("endDate must be YYYY-MM-DD")
	}
	duration := r.DurationMinutes
	if duration == 0 {
		duration = defaultDuration
	}
	return availability.Query{
		CalendarID:      calendarID,
		StartDate:       start,
		EndDate:         end,
		DurationMinutes: duration,
	}, nil
}

// AvailabilityResponse lists slots and the session they were recorded in.
type AvailabilityResponse struct {
	SessionID string                       `json:"sessionId"`
	TimeZone  string                       `json:"timeZone"`
	Slots     []availability.CandidateSlot `json:"slots"`
}

// PreviewRequest renders slots without a provider call, with optional busy ranges.
type PreviewRequest struct {
	StartDate       string         `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate         string         `json:"endDate" binding:"required,datetime=2006-01-02"`
	DurationMinutes int            `json:"durationMinutes" binding:"required,min=5,max=480"`
	Busy            []BusyInterval `json:"busy"`
}

// BusyInterval is a client supplied busy range.
type BusyInterval struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// ConfirmBookingRequest books one previously surfaced slot.
type ConfirmBookingRequest struct {
	SessionID      string    `json:"sessionId" binding:"required"`
	CalendarID     string    `json:"calendarId"`
	AttendeeEmails []string  `json:"attendeeEmails"`
	SlotStart      time.Time `json:"slotStart" binding:"required"`
	SlotEnd        time.Time `json:"slotEnd" binding:"required"`
	Subject        string    `json:"subject" binding:"required"`
	Description    string    `json:"description"`
}

// Slot converts the request bounds into a candidate slot.
func (r ConfirmBookingRequest) Slot() (availability.CandidateSlot, error) {
	if !r.SlotStart.Before(r.SlotEnd) {
		return availability.CandidateSlot{}, availability.NewValidationError("slotEnd must be after slotStart")
	}
	d := r.SlotEnd.Sub(r.SlotStart)
	if d%time.Minute != 0 {
		return availability.CandidateSlot{}, availability.NewValidationError("slot bounds must be whole minutes apart")
	}
	return availability.NewCandidateSlot(r.SlotStart, int(d/time.Minute)), nil
}

// ConfirmBookingResponse reports the booked call.
type ConfirmBookingResponse struct {
	EventRef       string    `json:"eventRef"`
	ConfirmedStart time.Time `json:"confirmedStart"`
	ConfirmedEnd   time.Time `json:"confirmedEnd"`
	ConferenceLink string    `json:"conferenceLink,omitempty"`
	Call           *Call     `json:"call"`
}

// SchedulingErrorResponse is the error payload for scheduling failures.
type SchedulingErrorResponse struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

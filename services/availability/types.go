package availability

import (
	"fmt"
	"time"
)

// TimeInterval is a half-open busy range [Start, End).
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// NewTimeInterval returns an interval, rejecting empty or inverted ranges.
func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !start.Before(end) {
		return TimeInterval{}, fmt.Errorf("interval start %s is not before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return TimeInterval{Start: start, End: end}, nil
}

// CandidateSlot is a computed, not yet confirmed time range eligible for booking.
type CandidateSlot struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"durationMinutes"`
}

// NewCandidateSlot builds a slot whose end is exactly start + durationMinutes.
func NewCandidateSlot(start time.Time, durationMinutes int) CandidateSlot {
	return CandidateSlot{
		Start:           start,
		End:             start.Add(time.Duration(durationMinutes) * time.Minute),
		DurationMinutes: durationMinutes,
	}
}

// Equal compares instants, ignoring location.
func (s CandidateSlot) Equal(o CandidateSlot) bool {
	return s.Start.Equal(o.Start) && s.End.Equal(o.End) && s.DurationMinutes == o.DurationMinutes
}

// Valid reports whether the slot honours end == start + duration.
func (s CandidateSlot) Valid() bool {
	if s.DurationMinutes <= 0 {
		return false
	}
	return s.End.Sub(s.Start) == time.Duration(s.DurationMinutes)*time.Minute
}

// WorkingHours is the daily window, in whole hours of the calendar's time zone.
type WorkingHours struct {
	OpenHour  int
	CloseHour int
}

// DefaultWorkingHours is 09:00-17:00.
var DefaultWorkingHours = WorkingHours{OpenHour: 9, CloseHour: 17}

// Valid reports whether the window is a non-empty range within one day.
func (w WorkingHours) Valid() bool {
	return w.OpenHour >= 0 && w.CloseHour <= 24 && w.OpenHour < w.CloseHour
}

// ProviderEvent is the calendar provider's view of an event. Start and End are nil
// for all-day or unbounded events.
type ProviderEvent struct {
	ID             string
	Start          *time.Time
	End            *time.Time
	ConferenceLink string
	Status         string
}

// EventBody is the creation request handed to the calendar provider.
type EventBody struct {
	Subject             string
	Description         string
	AttendeeEmails      []string
	Start               time.Time
	End                 time.Time
	TimeZone            string
	ConferenceRequestID string
}

// Query is the input of an availability computation. StartDate and EndDate are
// calendar dates; only their year, month and day are used.
type Query struct {
	CalendarID      string    `json:"calendarId"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	DurationMinutes int       `json:"durationMinutes"`
}

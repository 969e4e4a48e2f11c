package availability

import (
	"context"
	"iter"
	"slices"
	"time"
)

// MaxRangeDays bounds a single availability query.
const MaxRangeDays = 62

// Service computes bookable slots against a calendar provider.
type Service struct {
	Events   EventLister
	Zones    TimeZoneResolver // optional
	Hours    WorkingHours
	Location *time.Location // used when Zones is nil or cannot answer
	Now      func() time.Time
}

// NewService returns a Service with default working hours in UTC.
func NewService(events EventLister) *Service {
	return &Service{
		Events:   events,
		Hours:    DefaultWorkingHours,
		Location: time.UTC,
		Now:      time.Now,
	}
}

// ValidateQuery fails fast on malformed ranges and durations.
func ValidateQuery(q Query) error {
	if q.StartDate.IsZero() || q.EndDate.IsZero() {
		return validationError("startDate and endDate are required")
	}
	if q.DurationMinutes <= 0 {
		return validationError("durationMinutes must be positive, got %d", q.DurationMinutes)
	}
	start := dateIn(q.StartDate, time.UTC)
	end := dateIn(q.EndDate, time.UTC)
	if end.Before(start) {
		return validationError("endDate %s is before startDate %s",
			q.EndDate.Format(time.DateOnly), q.StartDate.Format(time.DateOnly))
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxRangeDays {
		return validationError("date range spans %d days, maximum is %d", days, MaxRangeDays)
	}
	return nil
}

// GetAvailability returns the ordered available slots for q. On provider failure it
// returns no slots at all.
func (s *Service) GetAvailability(ctx context.Context, q Query) ([]CandidateSlot, error) {
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}
	if q.CalendarID == "" {
		return nil, validationError("calendarId is required")
	}
	hours := s.hours()
	loc, err := s.location(ctx, q.CalendarID)
	if err != nil {
		return nil, err
	}

	timeMin, timeMax := WorkingWindow(q.StartDate, q.EndDate, loc, hours)
	busy, err := BusyIntervals(ctx, s.Events, q.CalendarID, timeMin, timeMax)
	if err != nil {
		return nil, err
	}

	slots := GenerateSlots(q.StartDate, q.EndDate, loc, hours, q.DurationMinutes)
	return collect(FilterAvailable(slots, busy, s.now())), nil
}

// Preview runs the same generation and filtering with a caller-supplied busy set and
// no provider call.
func (s *Service) Preview(q Query, busy []TimeInterval) ([]CandidateSlot, error) {
	if err := ValidateQuery(q); err != nil {
		return nil, err
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	sorted := slices.Clone(busy)
	slices.SortStableFunc(sorted, func(a, b TimeInterval) int {
		return a.Start.Compare(b.Start)
	})
	slots := GenerateSlots(q.StartDate, q.EndDate, loc, s.hours(), q.DurationMinutes)
	return collect(FilterAvailable(slots, sorted, s.now())), nil
}

// ResolveLocation returns the zone slots are generated in for calendarID. A failed
// lookup is ProviderUnavailable; an empty or unknown zone name falls back to Location.
func (s *Service) ResolveLocation(ctx context.Context, calendarID string) (*time.Location, error) {
	return s.location(ctx, calendarID)
}

func (s *Service) location(ctx context.Context, calendarID string) (*time.Location, error) {
	fallback := s.Location
	if fallback == nil {
		fallback = time.UTC
	}
	if s.Zones == nil {
		return fallback, nil
	}
	name, err := s.Zones.CalendarTimeZone(ctx, calendarID)
	if err != nil {
		return nil, providerUnavailable("calendar time zone", err)
	}
	if name == "" {
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback, nil
	}
	return loc, nil
}

func (s *Service) hours() WorkingHours {
	if s.Hours.Valid() {
		return s.Hours
	}
	return DefaultWorkingHours
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// collect never returns nil so an empty result encodes as [].
func collect(seq iter.Seq[CandidateSlot]) []CandidateSlot {
	out := []CandidateSlot{}
	for slot := range seq {
		out = append(out, slot)
	}
	return out
}

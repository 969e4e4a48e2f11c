package availability

import (
	"iter"
	"time"
)

// GenerateSlots enumerates working-hour slots of durationMinutes for every weekday in
// [startDate, endDate] (dates interpreted in loc). Slots that would run past closing
// are dropped. The sequence is lazy and may be ranged over any number of times.
func GenerateSlots(startDate, endDate time.Time, loc *time.Location, hours WorkingHours, durationMinutes int) iter.Seq[CandidateSlot] {
	if loc == nil {
		loc = time.UTC
	}
	first := dateIn(startDate, loc)
	last := dateIn(endDate, loc)
	step := time.Duration(durationMinutes) * time.Minute

	return func(yield func(CandidateSlot) bool) {
		if durationMinutes <= 0 || !hours.Valid() {
			return
		}
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			if isWeekend(day) {
				continue
			}
			open := time.Date(day.Year(), day.Month(), day.Day(), hours.OpenHour, 0, 0, 0, loc)
			// hour 24 normalises to the next midnight
			closing := time.Date(day.Year(), day.Month(), day.Day(), hours.CloseHour, 0, 0, 0, loc)
			for start := open; !start.Add(step).After(closing); start = start.Add(step) {
				if !yield(NewCandidateSlot(start, durationMinutes)) {
					return
				}
			}
		}
	}
}

// WorkingWindow returns the instant range covering opening of the first day to closing
// of the last day.
func WorkingWindow(startDate, endDate time.Time, loc *time.Location, hours WorkingHours) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(startDate.Year(), startDate.Month(), startDate.Day(), hours.OpenHour, 0, 0, 0, loc),
		time.Date(endDate.Year(), endDate.Month(), endDate.Day(), hours.CloseHour, 0, 0, 0, loc)
}

func dateIn(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

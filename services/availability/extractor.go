package availability

import (
	"context"
	"sort"
	"time"
)

// EventLister reads events from a calendar within [timeMin, timeMax).
type EventLister interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]ProviderEvent, error)
}

// TimeZoneResolver reports the IANA zone a calendar is configured with.
type TimeZoneResolver interface {
	CalendarTimeZone(ctx context.Context, calendarID string) (string, error)
}

// BusyIntervals lists provider events and turns them into busy intervals sorted by
// start. Events without a concrete start and end are dropped silently.
func BusyIntervals(ctx context.Context, lister EventLister, calendarID string, timeMin, timeMax time.Time) ([]TimeInterval, error) {
	events, err := lister.ListEvents(ctx, calendarID, timeMin, timeMax)
	if err != nil {
		return nil, providerUnavailable("list events", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, providerUnavailable("list events", err)
	}
	return ExtractBusy(events), nil
}

// ExtractBusy normalises provider events into sorted busy intervals.
func ExtractBusy(events []ProviderEvent) []TimeInterval {
	busy := make([]TimeInterval, 0, len(events))
	for _, ev := range events {
		if ev.Start == nil || ev.End == nil {
			continue
		}
		if ev.Status == "cancelled" {
			continue
		}
		iv, err := NewTimeInterval(*ev.Start, *ev.End)
		if err != nil {
			continue
		}
		busy = append(busy, iv)
	}
	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})
	return busy
}

// mergeBusy coalesces overlapping or touching intervals of a start-sorted list.
func mergeBusy(busy []TimeInterval) []TimeInterval {
	if len(busy) == 0 {
		return nil
	}
	merged := make([]TimeInterval, 0, len(busy))
	cur := busy[0]
	for _, b := range busy[1:] {
		if !b.Start.After(cur.End) {
			if b.End.After(cur.End) {
				cur.End = b.End
			}
			continue
		}
		merged = append(merged, cur)
		cur = b
	}
	return append(merged, cur)
}

package availability

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeLister struct {
	events []ProviderEvent
	err    error
	calls  int
	gotMin time.Time
	gotMax time.Time
}

func (f *fakeLister) ListEvents(_ context.Context, _ string, timeMin, timeMax time.Time) ([]ProviderEvent, error) {
	f.calls++
	f.gotMin, f.gotMax = timeMin, timeMax
	return f.events, f.err
}

type fakeZones struct {
	name string
	err  error
}

func (f fakeZones) CalendarTimeZone(context.Context, string) (string, error) { return f.name, f.err }

func ptr(t time.Time) *time.Time { return &t }

func newTestService(l EventLister) *Service {
	svc := NewService(l)
	svc.Now = func() time.Time { return longAgo }
	return svc
}

func TestExtractBusy_DropsUnboundedAndSorts(t *testing.T) {
	events := []ProviderEvent{
		{ID: "late", Start: ptr(at(14, 0)), End: ptr(at(15, 0))},
		{ID: "all-day"},
		{ID: "open-ended", Start: ptr(at(9, 0))},
		{ID: "early", Start: ptr(at(9, 0)), End: ptr(at(9, 30))},
		{ID: "inverted", Start: ptr(at(12, 0)), End: ptr(at(11, 0))},
		{ID: "cancelled", Start: ptr(at(10, 0)), End: ptr(at(11, 0)), Status: "cancelled"},
	}
	busy := ExtractBusy(events)
	if len(busy) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(busy))
	}
	if !busy[0].Start.Equal(at(9, 0)) || !busy[1].Start.Equal(at(14, 0)) {
		t.Fatalf("intervals not sorted: %v", busy)
	}
}

func TestGetAvailability_BusyEventsRemoveSlots(t *testing.T) {
	lister := &fakeLister{events: []ProviderEvent{
		{Start: ptr(at(9, 0)), End: ptr(at(9, 30))},
	}}
	svc := newTestService(lister)

	slots, err := svc.GetAvailability(context.Background(), Query{
		CalendarID: "primary", StartDate: monday, EndDate: monday, DurationMinutes: 15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slots[0].Start.Equal(at(9, 30)) {
		t.Fatalf("expected first slot at 09:30, got %s", slots[0].Start)
	}
	if !lister.gotMin.Equal(at(9, 0)) || !lister.gotMax.Equal(at(17, 0)) {
		t.Fatalf("unexpected provider window %s..%s", lister.gotMin, lister.gotMax)
	}
}

func TestGetAvailability_ProviderFailureYieldsNoSlots(t *testing.T) {
	lister := &fakeLister{err: errors.New("dial tcp: connection refused")}
	slots, err := newTestService(lister).GetAvailability(context.Background(), Query{
		CalendarID: "primary", StartDate: monday, EndDate: monday.AddDate(0, 0, 4), DurationMinutes: 30,
	})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ProviderUnavailable, got %v", err)
	}
	if slots != nil {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestGetAvailability_CancelledContextIsProviderUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestService(&fakeLister{}).GetAvailability(ctx, Query{
		CalendarID: "primary", StartDate: monday, EndDate: monday, DurationMinutes: 30,
	})
	if KindOf(err) != KindProviderUnavailable {
		t.Fatalf("expected ProviderUnavailable, got %v", err)
	}
}

func TestGetAvailability_ValidationHappensBeforeProviderCall(t *testing.T) {
	cases := []struct {
		name string
		q    Query
	}{
		{"end before start", Query{CalendarID: "c", StartDate: monday, EndDate: monday.AddDate(0, 0, -1), DurationMinutes: 30}},
		{"zero duration", Query{CalendarID: "c", StartDate: monday, EndDate: monday, DurationMinutes: 0}},
		{"negative duration", Query{CalendarID: "c", StartDate: monday, EndDate: monday, DurationMinutes: -5}},
		{"missing dates", Query{CalendarID: "c", DurationMinutes: 30}},
		{"range too long", Query{CalendarID: "c", StartDate: monday, EndDate: monday.AddDate(0, 0, MaxRangeDays), DurationMinutes: 30}},
		{"missing calendar", Query{StartDate: monday, EndDate: monday, DurationMinutes: 30}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lister := &fakeLister{}
			_, err := newTestService(lister).GetAvailability(context.Background(), tc.q)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if lister.calls != 0 {
				t.Fatal("provider was called for an invalid query")
			}
		})
	}
}

func TestGetAvailability_SaturdayOnly(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)
	slots, err := newTestService(&fakeLister{}).GetAvailability(context.Background(), Query{
		CalendarID: "primary", StartDate: saturday, EndDate: saturday, DurationMinutes: 30,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on Saturday, got %d", len(slots))
	}
}

func TestGetAvailability_ResolvesCalendarZone(t *testing.T) {
	if _, err := time.LoadLocation("Europe/Berlin"); err != nil {
		t.Skipf("zone database unavailable: %v", err)
	}
	svc := newTestService(&fakeLister{})
	svc.Zones = fakeZones{name: "Europe/Berlin"}
	slots, err := svc.GetAvailability(context.Background(), Query{
		CalendarID: "primary", StartDate: monday, EndDate: monday, DurationMinutes: 60,
	})
	if err != nil {
		t.Fatal(err)
	}
	// CEST is UTC+2 in October before the switch
	if h := slots[0].Start.UTC().Hour(); h != 7 {
		t.Fatalf("expected 07:00 UTC, got %02d:00", h)
	}
}

func TestGetAvailability_ZoneLookupFailureYieldsNoSlots(t *testing.T) {
	lister := &fakeLister{}
	svc := newTestService(lister)
	svc.Zones = fakeZones{err: errors.New("googleapi: Error 503: backend error")}
	slots, err := svc.GetAvailability(context.Background(), Query{
		CalendarID: "primary", StartDate: monday, EndDate: monday, DurationMinutes: 60,
	})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ProviderUnavailable, got %v", err)
	}
	if slots != nil {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
	if lister.calls != 0 {
		t.Fatal("events listed after the zone lookup failed")
	}
}

func TestResolveLocation_FallsBackOnUnknownZone(t *testing.T) {
	svc := newTestService(&fakeLister{})
	for _, name := range []string{"", "Not/AZone"} {
		svc.Zones = fakeZones{name: name}
		loc, err := svc.ResolveLocation(context.Background(), "primary")
		if err != nil {
			t.Fatalf("zone %q: unexpected error %v", name, err)
		}
		if loc != time.UTC {
			t.Fatalf("zone %q: expected UTC fallback, got %s", name, loc)
		}
	}
}

func TestPreview_MatchesRealComputation(t *testing.T) {
	busy := []TimeInterval{{Start: at(13, 0), End: at(14, 0)}, {Start: at(9, 0), End: at(9, 30)}}
	lister := &fakeLister{events: []ProviderEvent{
		{Start: ptr(at(13, 0)), End: ptr(at(14, 0))},
		{Start: ptr(at(9, 0)), End: ptr(at(9, 30))},
	}}
	svc := newTestService(lister)
	q := Query{CalendarID: "primary", StartDate: monday, EndDate: monday, DurationMinutes: 30}

	computed, err := svc.GetAvailability(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	preview, err := svc.Preview(q, busy)
	if err != nil {
		t.Fatal(err)
	}
	if len(computed) != len(preview) {
		t.Fatalf("preview has %d slots, computed has %d", len(preview), len(computed))
	}
	for i := range computed {
		if !computed[i].Equal(preview[i]) {
			t.Fatalf("slot %d differs: %v vs %v", i, computed[i], preview[i])
		}
	}
}

func TestSchedulingError_IsAndKind(t *testing.T) {
	err := providerUnavailable("list events", context.DeadlineExceeded)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatal("expected errors.Is to match kind")
	}
	if errors.Is(err, ErrBookingFailed) {
		t.Fatal("different kinds must not match")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("expected cause to be unwrapped")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatal("plain errors have no kind")
	}
}

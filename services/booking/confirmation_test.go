package booking

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"introcall/services/availability"
)

type fakeCreator struct {
	calls  int
	gotCal string
	body   availability.EventBody
	shift  time.Duration
	noTime bool
	err    error
}

func (f *fakeCreator) CreateEvent(_ context.Context, calendarID string, body availability.EventBody) (availability.ProviderEvent, error) {
	f.calls++
	f.gotCal = calendarID
	f.body = body
	if f.err != nil {
		return availability.ProviderEvent{}, f.err
	}
	ev := availability.ProviderEvent{ID: "evt-1", ConferenceLink: "https://meet.example/abc"}
	if !f.noTime {
		start := body.Start.Add(f.shift)
		end := body.End.Add(f.shift)
		ev.Start, ev.End = &start, &end
	}
	return ev, nil
}

func validRequest() BookingRequest {
	start := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	return BookingRequest{
		AttendeeEmails: []string{"rep@example.com", "dm@example.com"},
		Slot:           availability.NewCandidateSlot(start, 30),
		Subject:        "Intro call",
		Description:    "Quick introduction",
	}
}

func TestConfirm_Success(t *testing.T) {
	creator := &fakeCreator{}
	conf, err := NewBookingConfirmation(creator).Confirm(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.EventRef != "evt-1" || conf.ConferenceLink == "" {
		t.Fatalf("unexpected confirmation %+v", conf)
	}
	if creator.calls != 1 {
		t.Fatalf("expected exactly one create call, got %d", creator.calls)
	}
	if creator.gotCal != "primary" {
		t.Fatalf("expected default calendar, got %q", creator.gotCal)
	}
	if creator.body.ConferenceRequestID == "" {
		t.Fatal("expected a conference request id")
	}
	if creator.body.Subject != "Intro call" || len(creator.body.AttendeeEmails) != 2 {
		t.Fatalf("unexpected body %+v", creator.body)
	}
}

func TestConfirm_ShiftedTimeIsSlotMismatch(t *testing.T) {
	creator := &fakeCreator{shift: 5 * time.Minute}
	conf, err := NewBookingConfirmation(creator).Confirm(context.Background(), validRequest())
	if !errors.Is(err, availability.ErrSlotMismatch) {
		t.Fatalf("expected SlotMismatch, got %v", err)
	}
	if conf == nil || conf.EventRef != "evt-1" {
		t.Fatal("expected the created event to be reported for cleanup")
	}
}

func TestConfirm_MissingTimesIsSlotMismatch(t *testing.T) {
	_, err := NewBookingConfirmation(&fakeCreator{noTime: true}).Confirm(context.Background(), validRequest())
	if availability.KindOf(err) != availability.KindSlotMismatch {
		t.Fatalf("expected SlotMismatch, got %v", err)
	}
}

func TestConfirm_ProviderErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want availability.Kind
	}{
		{"rejected", &availability.ProviderRejection{Reason: "invalid attendee"}, availability.KindBookingFailed},
		{"wrapped rejection", errors.Join(errors.New("insert"), &availability.ProviderRejection{Reason: "forbidden"}), availability.KindBookingFailed},
		{"network", errors.New("connection reset"), availability.KindProviderUnavailable},
		{"timeout", context.DeadlineExceeded, availability.KindProviderUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conf, err := NewBookingConfirmation(&fakeCreator{err: tc.err}).Confirm(context.Background(), validRequest())
			if availability.KindOf(err) != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, err)
			}
			if conf != nil {
				t.Fatal("expected no confirmation on failure")
			}
		})
	}
}

func TestConfirm_RejectionReasonSurfaced(t *testing.T) {
	_, err := NewBookingConfirmation(&fakeCreator{err: &availability.ProviderRejection{Reason: "quota"}}).Confirm(context.Background(), validRequest())
	var se *availability.SchedulingError
	if !errors.As(err, &se) || se.Detail != "quota" {
		t.Fatalf("expected reason to be surfaced, got %v", err)
	}
}

func TestConfirm_ValidationSkipsProvider(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BookingRequest)
	}{
		{"no attendees", func(r *BookingRequest) { r.AttendeeEmails = nil }},
		{"blank attendees", func(r *BookingRequest) { r.AttendeeEmails = []string{" ", ""} }},
		{"bad email", func(r *BookingRequest) { r.AttendeeEmails = []string{"not-an-email"} }},
		{"no subject", func(r *BookingRequest) { r.Subject = "  " }},
		{"inconsistent slot", func(r *BookingRequest) { r.Slot.End = r.Slot.End.Add(time.Minute) }},
		{"zero duration", func(r *BookingRequest) { r.Slot.DurationMinutes = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			creator := &fakeCreator{}
			_, err := NewBookingConfirmation(creator).Confirm(context.Background(), req)
			if !errors.Is(err, availability.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if creator.calls != 0 {
				t.Fatal("provider called for invalid request")
			}
		})
	}
}

func TestNormalizeAttendees(t *testing.T) {
	got, err := NormalizeAttendees([]string{" Rep@Example.com", "dm@example.com", "rep@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"rep@example.com", "dm@example.com"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

package tasks

import (
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
)

func processAt(t *testing.T, opts []asynq.Option) time.Time {
	t.Helper()
	for _, o := range opts {
		if o.Type() == asynq.ProcessAtOpt {
			return o.Value().(time.Time)
		}
	}
	t.Fatal("no ProcessAt option")
	return time.Time{}
}

func TestNewCallReminderTask_Timing(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	lead := 30 * time.Minute

	cases := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{"well ahead", now.Add(2 * time.Hour), now.Add(90 * time.Minute)},
		{"inside lead window", now.Add(10 * time.Minute), now},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task, opts, err := NewCallReminderTask("c1", tc.start, lead, now)
			if err != nil {
				t.Fatal(err)
			}
			if task.Type() != TypeCallReminder {
				t.Fatalf("unexpected type %s", task.Type())
			}
			if got := processAt(t, opts); !got.Equal(tc.want) {
				t.Fatalf("fires at %s, want %s", got, tc.want)
			}
			p, err := ParseCallReminder(task)
			if err != nil || p.CallID != "c1" {
				t.Fatalf("payload %+v, %v", p, err)
			}
		})
	}

	if _, _, err := NewCallReminderTask("c1", now, lead, now); !errors.Is(err, ErrReminderTooLate) {
		t.Fatalf("expected ErrReminderTooLate, got %v", err)
	}
}

func TestParse_BadPayloadSkipsRetry(t *testing.T) {
	if _, err := ParseInvitationEmail(asynq.NewTask(TypeInvitationEmail, []byte("{"))); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if _, err := ParseCallReminder(asynq.NewTask(TypeCallReminder, []byte(`{}`))); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestNewInvitationEmailTask(t *testing.T) {
	task, _, err := NewInvitationEmailTask("inv-1")
	if err != nil {
		t.Fatal(err)
	}
	p, err := ParseInvitationEmail(task)
	if err != nil || p.InvitationID != "inv-1" {
		t.Fatalf("payload %+v, %v", p, err)
	}
}

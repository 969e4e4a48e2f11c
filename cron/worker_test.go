package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"introcall/services/calls"
	"introcall/services/invitation"
	"introcall/services/tasks"

	"github.com/hibiken/asynq"
)

type fakeInvitationJobs struct {
	sent    []string
	sendErr error
	expired int
	sweptAt time.Time
}

func (f *fakeInvitationJobs) SendInvitationEmail(_ context.Context, id string) error {
	f.sent = append(f.sent, id)
	return f.sendErr
}

func (f *fakeInvitationJobs) ExpireOverdue(_ context.Context, now time.Time) (int, error) {
	f.sweptAt = now
	return f.expired, nil
}

type fakeCallJobs struct {
	reminded []string
	err      error
}

func (f *fakeCallJobs) SendCallReminder(_ context.Context, id string) error {
	f.reminded = append(f.reminded, id)
	return f.err
}

func TestInvitationEmailHandler(t *testing.T) {
	jobs := &fakeInvitationJobs{}
	task, _, err := tasks.NewInvitationEmailTask("inv-1")
	if err != nil {
		t.Fatal(err)
	}
	if err := handleInvitationEmail(jobs)(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	if len(jobs.sent) != 1 || jobs.sent[0] != "inv-1" {
		t.Fatalf("unexpected sends %v", jobs.sent)
	}
}

func TestInvitationEmailHandler_MissingInvitationSkipsRetry(t *testing.T) {
	jobs := &fakeInvitationJobs{sendErr: invitation.ErrNotFound}
	task, _, _ := tasks.NewInvitationEmailTask("gone")
	err := handleInvitationEmail(jobs)(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func TestInvitationEmailHandler_TransientErrorRetries(t *testing.T) {
	jobs := &fakeInvitationJobs{sendErr: errors.New("smtp timeout")}
	task, _, _ := tasks.NewInvitationEmailTask("inv-1")
	err := handleInvitationEmail(jobs)(context.Background(), task)
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected a retryable error, got %v", err)
	}
}

func TestInvitationEmailHandler_BadPayload(t *testing.T) {
	jobs := &fakeInvitationJobs{}
	err := handleInvitationEmail(jobs)(context.Background(), asynq.NewTask(tasks.TypeInvitationEmail, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
	if len(jobs.sent) != 0 {
		t.Fatal("nothing should be sent")
	}
}

func TestExpireHandler(t *testing.T) {
	now := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	jobs := &fakeInvitationJobs{expired: 3}
	if err := handleExpireInvitations(jobs, func() time.Time { return now })(context.Background(), tasks.NewExpireInvitationsTask()); err != nil {
		t.Fatal(err)
	}
	if !jobs.sweptAt.Equal(now) {
		t.Fatalf("sweep used %s", jobs.sweptAt)
	}
}

func TestCallReminderHandler(t *testing.T) {
	now := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)
	task, _, err := tasks.NewCallReminderTask("call-1", now.Add(time.Hour), 30*time.Minute, now)
	if err != nil {
		t.Fatal(err)
	}

	jobs := &fakeCallJobs{}
	if err := handleCallReminder(jobs)(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	if len(jobs.reminded) != 1 || jobs.reminded[0] != "call-1" {
		t.Fatalf("unexpected reminders %v", jobs.reminded)
	}

	gone := &fakeCallJobs{err: calls.ErrCallNotFound}
	if err := handleCallReminder(gone)(context.Background(), task); !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

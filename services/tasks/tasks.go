package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"introcall/models"

	"github.com/hibiken/asynq"
)

const (
	TypeInvitationEmail  = "invitation:email"
	TypeCallReminder     = "call:reminder"
	TypeInvitationExpire = "invitation:expire"
)

// ErrReminderTooLate is returned when the call has already started.
var ErrReminderTooLate = errors.New("call already started")

// NewInvitationEmailTask builds the task that mails a new invitation.
func NewInvitationEmailTask(invitationID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.InvitationEmailPayload{InvitationID: invitationID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeInvitationEmail, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}
	return task, opts, nil
}

// NewCallReminderTask schedules a reminder lead before start, or right away when
// that moment has passed but the call has not begun.
func NewCallReminderTask(callID string, start time.Time, lead time.Duration, now time.Time) (*asynq.Task, []asynq.Option, error) {
	if !start.After(now) {
		return nil, nil, ErrReminderTooLate
	}
	b, err := json.Marshal(models.CallReminderPayload{CallID: callID})
	if err != nil {
		return nil, nil, err
	}
	fireAt := start.Add(-lead)
	if fireAt.Before(now) {
		fireAt = now
	}
	task := asynq.NewTask(TypeCallReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + callID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// NewExpireInvitationsTask builds the periodic expiry sweep.
func NewExpireInvitationsTask() *asynq.Task {
	return asynq.NewTask(TypeInvitationExpire, nil, asynq.MaxRetry(1))
}

// ParseInvitationEmail decodes an invitation e-mail payload.
func ParseInvitationEmail(t *asynq.Task) (models.InvitationEmailPayload, error) {
	var p models.InvitationEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if p.InvitationID == "" {
		return p, fmt.Errorf("invalid %s payload: missing invitation id: %w", t.Type(), asynq.SkipRetry)
	}
	return p, nil
}

// ParseCallReminder decodes a call reminder payload.
func ParseCallReminder(t *asynq.Task) (models.CallReminderPayload, error) {
	var p models.CallReminderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("invalid %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if p.CallID == "" {
		return p, fmt.Errorf("invalid %s payload: missing call id: %w", t.Type(), asynq.SkipRetry)
	}
	return p, nil
}

// Enqueuer schedules background work.
type Enqueuer interface {
	EnqueueInvitationEmail(ctx context.Context, invitationID string) error
	EnqueueCallReminder(ctx context.Context, call *models.Call) error
}

// AsynqEnqueuer implements Enqueuer on an asynq client.
type AsynqEnqueuer struct {
	client *asynq.Client
	lead   time.Duration
	now    func() time.Time
}

// NewAsynqEnqueuer returns an Enqueuer; lead is the reminder lead time.
func NewAsynqEnqueuer(client *asynq.Client, lead time.Duration) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client, lead: lead, now: time.Now}
}

func (e *AsynqEnqueuer) EnqueueInvitationEmail(ctx context.Context, invitationID string) error {
	task, opts, err := NewInvitationEmailTask(invitationID)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeInvitationEmail, err)
	}
	return nil
}

// EnqueueCallReminder is a no-op for calls that already started. Enqueuing the
// same call twice keeps the first reminder.
func (e *AsynqEnqueuer) EnqueueCallReminder(ctx context.Context, call *models.Call) error {
	task, opts, err := NewCallReminderTask(call.ID, call.Start, e.lead, e.now())
	if errors.Is(err, ErrReminderTooLate) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, opts...)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return fmt.Errorf("enqueue %s: %w", TypeCallReminder, err)
	}
	return nil
}

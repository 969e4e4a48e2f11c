package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"introcall/services/calls"
	"introcall/services/invitation"
	"introcall/services/tasks"
	"introcall/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ExpirySchedule is how often overdue invitations are swept.
const ExpirySchedule = "@every 15m"

// InvitationJobs is the invitation work the worker runs.
type InvitationJobs interface {
	SendInvitationEmail(ctx context.Context, id string) error
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// CallJobs is the call work the worker runs.
type CallJobs interface {
	SendCallReminder(ctx context.Context, callID string) error
}

// Worker runs queued tasks and the periodic expiry sweep.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// NewServeMux routes every task type to its handler.
func NewServeMux(invitations InvitationJobs, callJobs CallJobs) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeInvitationEmail, handleInvitationEmail(invitations))
	mux.HandleFunc(tasks.TypeInvitationExpire, handleExpireInvitations(invitations, time.Now))
	mux.HandleFunc(tasks.TypeCallReminder, handleCallReminder(callJobs))
	return mux
}

// NewWorker builds the asynq server and scheduler on the queue Redis.
func NewWorker(redisOpt asynq.RedisClientOpt, invitations InvitationJobs, callJobs CallJobs) *Worker {
	logger := utils.GetLogger().Sugar()
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
		Logger:      logger,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			utils.GetLogger().Error("Task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Logger: logger})
	return &Worker{server: srv, scheduler: scheduler, mux: NewServeMux(invitations, callJobs)}
}

// Start runs the worker and registers the expiry sweep. It returns once both are up.
func (w *Worker) Start() error {
	if _, err := w.scheduler.Register(ExpirySchedule, tasks.NewExpireInvitationsTask()); err != nil {
		return fmt.Errorf("register expiry sweep: %w", err)
	}
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("start scheduler: %w", err)
	}
	utils.GetLogger().Info("Worker started", zap.String("expirySchedule", ExpirySchedule))
	return nil
}

// Shutdown stops the scheduler and waits for running tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func handleInvitationEmail(jobs InvitationJobs) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseInvitationEmail(task)
		if err != nil {
			return err
		}
		err = jobs.SendInvitationEmail(ctx, p.InvitationID)
		if errors.Is(err, invitation.ErrNotFound) {
			return fmt.Errorf("invitation %s: %v: %w", p.InvitationID, err, asynq.SkipRetry)
		}
		return err
	}
}

func handleExpireInvitations(jobs InvitationJobs, now func() time.Time) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		_, err := jobs.ExpireOverdue(ctx, now())
		return err
	}
}

func handleCallReminder(jobs CallJobs) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseCallReminder(task)
		if err != nil {
			return err
		}
		err = jobs.SendCallReminder(ctx, p.CallID)
		if errors.Is(err, calls.ErrCallNotFound) {
			return fmt.Errorf("call %s: %v: %w", p.CallID, err, asynq.SkipRetry)
		}
		return err
	}
}

// StartWorker builds and starts a Worker.
func StartWorker(redisOpt asynq.RedisClientOpt, invitations InvitationJobs, callJobs CallJobs) (*Worker, error) {
	w := NewWorker(redisOpt, invitations, callJobs)
	if err := w.Start(); err != nil {
		return nil, err
	}
	return w, nil
}

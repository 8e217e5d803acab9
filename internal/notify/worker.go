// AngelaMos | 2026
// worker.go

package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/user"
)

const (
	DefaultRecipientLimit = 1000

	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
	OutcomeQueued  = "queued"
)

type RecipientFinder interface {
	Recipients(ctx context.Context, prefKey string, limit int) ([]user.User, error)
}

// Recorder observes notification outcomes.
type Recorder interface {
	RecordNotification(kind, outcome string)
}

type WorkerStats struct {
	Jobs    int64 `json:"jobs"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
}

type Worker struct {
	queue      Queue
	recipients RecipientFinder
	sender     Sender
	namer      CategoryNamer
	recorder   Recorder
	logger     *slog.Logger
	limit      int

	jobs    atomic.Int64
	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

type WorkerConfig struct {
	Queue          Queue
	Recipients     RecipientFinder
	Sender         Sender
	Categories     CategoryNamer
	Recorder       Recorder
	Logger         *slog.Logger
	RecipientLimit int
}

func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RecipientLimit <= 0 {
		cfg.RecipientLimit = DefaultRecipientLimit
	}
	return &Worker{
		queue:      cfg.Queue,
		recipients: cfg.Recipients,
		sender:     cfg.Sender,
		namer:      cfg.Categories,
		recorder:   cfg.Recorder,
		logger:     cfg.Logger,
		limit:      cfg.RecipientLimit,
	}
}

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("notification worker started", "recipient_limit", w.limit)

	for {
		job, err := w.queue.Pop(ctx)
		if ctx.Err() != nil {
			w.logger.Info("notification worker stopped")
			return
		}
		if err != nil {
			w.logger.Error("notification queue read failed", "error", err)
			if !sleep(ctx, time.Second) {
				w.logger.Info("notification worker stopped")
				return
			}
			continue
		}
		if job == nil {
			continue
		}

		if _, _, err := w.Process(ctx, *job); err != nil {
			w.logger.Error("notification job failed",
				"kind", job.Kind,
				"error", err,
			)
		}
	}
}

// Process delivers one job to every matching recipient in turn. A failed
// delivery is logged and counted; it does not stop the remaining ones.
func (w *Worker) Process(ctx context.Context, job Job) (sent, failed int, err error) {
	w.jobs.Add(1)

	ctx, span := core.StartSpan(ctx, "notify.process", attribute.String("notify.kind", job.Kind))
	defer func() {
		span.SetAttributes(attribute.Int("notify.sent", sent), attribute.Int("notify.failed", failed))
		if err != nil {
			core.SetSpanError(ctx, err)
		}
		span.End()
	}()

	if err := job.Validate(); err != nil {
		w.dropped.Add(1)
		w.record(job.Kind, OutcomeDropped)
		return 0, 0, err
	}

	users, err := w.recipients.Recipients(ctx, job.PreferenceKey(), w.limit)
	if err != nil {
		return 0, 0, fmt.Errorf("find recipients: %w", err)
	}

	template := BuildMessage(ctx, job, w.namer)

	for _, u := range users {
		if !u.HasPushToken() || !u.NotificationPreferences.Wants(job.PreferenceKey()) {
			continue
		}

		msg := template
		msg.To = *u.PushToken

		if err := w.sender.Send(ctx, msg); err != nil {
			failed++
			w.failed.Add(1)
			w.record(job.Kind, OutcomeFailed)
			core.AddSpanEvent(ctx, "push.failed", attribute.String("user_id", u.ID))
			w.logger.Warn("push delivery failed",
				"user_id", u.ID,
				"kind", job.Kind,
				"error", err,
			)
			if errors.Is(err, context.Canceled) {
				return sent, failed, err
			}
			continue
		}

		sent++
		w.sent.Add(1)
		w.record(job.Kind, OutcomeSent)
	}

	w.logger.Info("notification job done",
		"kind", job.Kind,
		"recipients", len(users),
		"sent", sent,
		"failed", failed,
	)

	return sent, failed, nil
}

func (w *Worker) Stats() WorkerStats {
	return WorkerStats{
		Jobs:    w.jobs.Load(),
		Sent:    w.sent.Load(),
		Failed:  w.failed.Load(),
		Dropped: w.dropped.Load(),
	}
}

func (w *Worker) record(kind, outcome string) {
	if w.recorder != nil {
		w.recorder.RecordNotification(kind, outcome)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

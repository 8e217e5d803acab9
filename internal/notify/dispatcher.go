// AngelaMos | 2026
// dispatcher.go

package notify

import (
	"context"
	"log/slog"
	"time"
)

// Dispatcher is the write side of the queue used by request handlers.
// Enqueue never fails the caller; problems are logged.
type Dispatcher struct {
	queue    Queue
	recorder Recorder
	now      func() time.Time
}

func NewDispatcher(queue Queue, recorder Recorder) *Dispatcher {
	return &Dispatcher{
		queue:    queue,
		recorder: recorder,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (d *Dispatcher) Enqueue(ctx context.Context, job Job) {
	if err := job.Validate(); err != nil {
		slog.WarnContext(ctx, "notification job rejected", "kind", job.Kind, "error", err)
		d.record(job.Kind, OutcomeDropped)
		return
	}

	job.EnqueuedAt = d.now()

	// The request context may end as soon as the response is written.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := d.queue.Push(pushCtx, job); err != nil {
		slog.ErrorContext(ctx, "notification enqueue failed",
			"kind", job.Kind,
			"event_id", job.EventID,
			"news_id", job.NewsID,
			"error", err,
		)
		d.record(job.Kind, OutcomeDropped)
		return
	}

	d.record(job.Kind, OutcomeQueued)
}

func (d *Dispatcher) QueueLength(ctx context.Context) (int64, error) {
	return d.queue.Len(ctx)
}

func (d *Dispatcher) record(kind, outcome string) {
	if d.recorder != nil {
		d.recorder.RecordNotification(kind, outcome)
	}
}

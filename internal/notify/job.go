// AngelaMos | 2026
// job.go

package notify

import (
	"fmt"
	"time"

	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/user"
)

const (
	KindNewEvent    = "new_event"
	KindEventUpdate = "event_update"
	KindNews        = "news"
)

// Job describes one fan-out: a single event or news item whose recipients
// are resolved when the worker picks the job up.
type Job struct {
	Kind       string    `json:"kind"`
	EventID    string    `json:"event_id,omitempty"`
	NewsID     string    `json:"news_id,omitempty"`
	Category   string    `json:"category,omitempty"`
	Title      string    `json:"title"`
	Body       string    `json:"body,omitempty"`
	StartTime  time.Time `json:"start_time,omitzero"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func NewEventJob(eventID, category, title string, start time.Time) Job {
	return Job{
		Kind:      KindNewEvent,
		EventID:   eventID,
		Category:  category,
		Title:     title,
		StartTime: start,
	}
}

func EventUpdateJob(eventID, category, title string, start time.Time) Job {
	return Job{
		Kind:      KindEventUpdate,
		EventID:   eventID,
		Category:  category,
		Title:     title,
		StartTime: start,
	}
}

func NewsJob(newsID, title, body string) Job {
	return Job{
		Kind:   KindNews,
		NewsID: newsID,
		Title:  title,
		Body:   body,
	}
}

// PreferenceKey is the notification_preferences category a recipient must
// have enabled to receive this job.
func (j Job) PreferenceKey() string {
	if j.Kind == KindNews {
		return user.PrefNews
	}
	return j.Category
}

func (j Job) Validate() error {
	switch j.Kind {
	case KindNewEvent, KindEventUpdate:
		if j.EventID == "" || j.Category == "" {
			return fmt.Errorf("job %s: missing event id or category: %w", j.Kind, core.ErrInvalidInput)
		}
	case KindNews:
		if j.NewsID == "" {
			return fmt.Errorf("job %s: missing news id: %w", j.Kind, core.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("job: unknown kind %q: %w", j.Kind, core.ErrInvalidInput)
	}
	return nil
}

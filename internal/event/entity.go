// AngelaMos | 2026
// entity.go

package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/borka-sandviken/borka-api/internal/calendar"
	"github.com/borka-sandviken/borka-api/internal/core"
)

type Event struct {
	ID          string    `db:"id"          bson:"id"`
	Title       string    `db:"title"       bson:"title"`
	Description string    `db:"description" bson:"description"`
	Location    string    `db:"location"    bson:"location"`
	StartTime   time.Time `db:"start_time"  bson:"start_time"`
	EndTime     time.Time `db:"end_time"    bson:"end_time"`
	Category    string    `db:"category"    bson:"category"`
	CreatedBy   string    `db:"created_by"  bson:"created_by"`
	CreatedAt   time.Time `db:"created_at"  bson:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"  bson:"updated_at"`
}

func (e *Event) Validate() error {
	switch {
	case e.ID == "":
		return fmt.Errorf("event: missing id: %w", core.ErrInvalidInput)
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("event %s: missing title: %w", e.ID, core.ErrInvalidInput)
	case e.Location == "":
		return fmt.Errorf("event %s: missing location: %w", e.ID, core.ErrInvalidInput)
	case e.StartTime.IsZero() || e.EndTime.IsZero():
		return fmt.Errorf("event %s: missing start or end: %w", e.ID, core.ErrInvalidInput)
	case e.EndTime.Before(e.StartTime):
		return fmt.Errorf("event %s: ends before it starts: %w", e.ID, core.ErrInvalidInput)
	case e.Category == "":
		return fmt.Errorf("event %s: missing category: %w", e.ID, core.ErrInvalidInput)
	case e.CreatedBy == "":
		return fmt.Errorf("event %s: missing creator: %w", e.ID, core.ErrInvalidInput)
	}
	return nil
}

func (e *Event) ToCalendar() calendar.Event {
	return calendar.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Start:       e.StartTime,
		End:         e.EndTime,
	}
}

func NewID() string {
	return uuid.NewString()
}

// AngelaMos | 2026
// dto.go

package event

import (
	"time"

	"github.com/borka-sandviken/borka-api/internal/calendar"
)

const (
	maxListLimit = 100
)

type CreateEventRequest struct {
	Title       string        `json:"title"       validate:"required,min=1,max=200"`
	Description string        `json:"description" validate:"max=5000"`
	Location    string        `json:"location"    validate:"max=200"`
	StartTime   calendar.Time `json:"start_time"`
	EndTime     calendar.Time `json:"end_time"`
	Category    string        `json:"category"    validate:"required,max=64"`
}

type UpdateEventRequest struct {
	Title       *string        `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=5000"`
	Location    *string        `json:"location,omitempty"    validate:"omitempty,max=200"`
	StartTime   *calendar.Time `json:"start_time,omitempty"`
	EndTime     *calendar.Time `json:"end_time,omitempty"`
	Category    *string        `json:"category,omitempty"    validate:"omitempty,max=64"`
}

// TouchesSchedule reports whether subscribers should hear about the update.
func (r UpdateEventRequest) TouchesSchedule() bool {
	return r.StartTime != nil || r.Location != nil
}

type ListParams struct {
	Category string
	After    *time.Time
	Limit    int
}

type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Category    string    `json:"category"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToEventResponse(e *Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   e.StartTime.UTC(),
		EndTime:     e.EndTime.UTC(),
		Category:    e.Category,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt.UTC(),
		UpdatedAt:   e.UpdatedAt.UTC(),
	}
}

func ToEventResponseList(events []Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, ToEventResponse(&events[i]))
	}
	return responses
}

// AngelaMos | 2026
// service.go

package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/borka-sandviken/borka-api/internal/calendar"
	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/notify"
)

// Notifier accepts fan-out jobs after a write has been stored.
type Notifier interface {
	Enqueue(ctx context.Context, job notify.Job)
}

type Service struct {
	repo            Repository
	notifier        Notifier
	defaultLocation string
	now             func() time.Time
}

func NewService(repo Repository, notifier Notifier, defaultLocation string) *Service {
	if defaultLocation == "" {
		defaultLocation = calendar.DefaultLocation
	}
	return &Service{
		repo:            repo,
		notifier:        notifier,
		defaultLocation: defaultLocation,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// List returns events ordered by start time. With upcoming set, events that
// already started are left out. Category "all" or "" means no filter.
func (s *Service) List(ctx context.Context, category string, upcoming bool) ([]Event, error) {
	params := ListParams{Limit: maxListLimit}

	if category != "" && category != "all" {
		params.Category = category
	}
	if upcoming {
		now := s.now()
		params.After = &now
	}

	events, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	creatorID string,
	req CreateEventRequest,
) (*Event, error) {
	now := s.now()

	e := &Event{
		ID:          NewID(),
		Title:       core.SanitizeText(req.Title),
		Description: core.SanitizeText(req.Description),
		Location:    core.SanitizeText(req.Location),
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
		Category:    strings.TrimSpace(req.Category),
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if e.Location == "" {
		e.Location = s.defaultLocation
	}

	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	s.notify(ctx, notify.NewEventJob(e.ID, e.Category, e.Title, e.StartTime))

	return e, nil
}

// Update applies the non-nil fields of req. Subscribers are notified when
// the start time or the location was part of the update.
func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateEventRequest,
) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		e.Title = core.SanitizeText(*req.Title)
	}
	if req.Description != nil {
		e.Description = core.SanitizeText(*req.Description)
	}
	if req.Location != nil {
		e.Location = core.SanitizeText(*req.Location)
		if e.Location == "" {
			e.Location = s.defaultLocation
		}
	}
	if req.StartTime != nil {
		e.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		e.EndTime = req.EndTime.UTC()
	}
	if req.Category != nil {
		e.Category = strings.TrimSpace(*req.Category)
	}
	e.UpdatedAt = s.now()

	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	if req.TouchesSchedule() {
		s.notify(ctx, notify.EventUpdateJob(e.ID, e.Category, e.Title, e.StartTime))
	}

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Store inserts a fully built event without notifying anyone.
func (s *Service) Store(ctx context.Context, e *Event) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.Location == "" {
		e.Location = s.defaultLocation
	}
	now := s.now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	return s.repo.Create(ctx, e)
}

func (s *Service) CalendarEvents(ctx context.Context, limit int) ([]calendar.Event, error) {
	events, err := s.repo.List(ctx, ListParams{Limit: limit})
	if err != nil {
		return nil, err
	}

	out := make([]calendar.Event, 0, len(events))
	for i := range events {
		out = append(out, events[i].ToCalendar())
	}
	return out, nil
}

func (s *Service) CalendarEvent(ctx context.Context, id string) (*calendar.Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ce := e.ToCalendar()
	return &ce, nil
}

func (s *Service) notify(ctx context.Context, job notify.Job) {
	if s.notifier != nil {
		s.notifier.Enqueue(ctx, job)
	}
}

var _ calendar.EventSource = (*Service)(nil)

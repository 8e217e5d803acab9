// AngelaMos | 2026
// service.go

package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/notify"
)

type Notifier interface {
	Enqueue(ctx context.Context, job notify.Job)
}

type Service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns the newest items first.
func (s *Service) List(ctx context.Context) ([]News, error) {
	return s.repo.List(ctx, maxListLimit)
}

func (s *Service) Get(ctx context.Context, id string) (*News, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	creatorID string,
	req CreateNewsRequest,
) (*News, error) {
	now := s.now()

	n := &News{
		ID:          NewID(),
		Title:       core.SanitizeText(req.Title),
		Body:        core.SanitizeText(req.Body),
		Image:       cleanImage(req.Image),
		PublishDate: now,
		CreatedBy:   creatorID,
		CreatedAt:   now,
	}

	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Enqueue(ctx, notify.NewsJob(n.ID, n.Title, n.Body))
	}

	return n, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateNewsRequest,
) (*News, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		n.Title = core.SanitizeText(*req.Title)
	}
	if req.Body != nil {
		n.Body = core.SanitizeText(*req.Body)
	}
	if req.Image != nil {
		n.Image = cleanImage(req.Image)
	}

	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("update news: %w", err)
	}

	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Store inserts a fully built item without notifying anyone.
func (s *Service) Store(ctx context.Context, n *News) error {
	now := s.now()
	if n.ID == "" {
		n.ID = NewID()
	}
	if n.PublishDate.IsZero() {
		n.PublishDate = now
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	return s.repo.Create(ctx, n)
}

func cleanImage(image *string) *string {
	if image == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*image)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

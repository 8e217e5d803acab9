// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/borka-sandviken/borka-api/internal/core"
)

const listLimit = 20

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.List(ctx, listLimit)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

// NameForSlug returns the display name of a category, or the slug itself
// when the category is unknown or the lookup fails.
func (s *Service) NameForSlug(ctx context.Context, slug string) string {
	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "category lookup failed", "slug", slug, "error", err)
		}
		return slug
	}
	return c.Name
}

// EnsureDefaults inserts every default category whose slug is missing and
// returns how many were created.
func (s *Service) EnsureDefaults(ctx context.Context) (int, error) {
	created := 0

	for _, c := range Defaults() {
		_, err := s.repo.GetBySlug(ctx, c.Slug)
		if err == nil {
			continue
		}
		if !errors.Is(err, core.ErrNotFound) {
			return created, fmt.Errorf("ensure categories: %w", err)
		}

		if err := s.repo.Create(ctx, &c); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				continue
			}
			return created, fmt.Errorf("ensure categories: %w", err)
		}
		created++
	}

	return created, nil
}

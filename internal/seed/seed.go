// AngelaMos | 2026
// seed.go

package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/borka-sandviken/borka-api/internal/config"
	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/event"
	"github.com/borka-sandviken/borka-api/internal/news"
	"github.com/borka-sandviken/borka-api/internal/user"
)

const (
	adminName   = "BORKA Admin"
	venue       = "Odengatan 31, Sandviken"
	welcomeBody = "Nu kan du följa alla våra event och nyheter direkt i appen. " +
		"Glöm inte att aktivera notiser för att inte missa något!"
)

type Categories interface {
	EnsureDefaults(ctx context.Context) (int, error)
}

type Users interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
}

type Events interface {
	Count(ctx context.Context) (int64, error)
	Store(ctx context.Context, e *event.Event) error
}

type NewsItems interface {
	Count(ctx context.Context) (int64, error)
	Store(ctx context.Context, n *news.News) error
}

type Seeder struct {
	cfg        config.SeedConfig
	categories Categories
	users      Users
	events     Events
	news       NewsItems
	now        func() time.Time
}

func New(
	cfg config.SeedConfig,
	categories Categories,
	users Users,
	events Events,
	newsItems NewsItems,
) *Seeder {
	return &Seeder{
		cfg:        cfg,
		categories: categories,
		users:      users,
		events:     events,
		news:       newsItems,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run creates the default categories, the bootstrap admin and, when sample
// data is enabled and the collections are empty, two events and a welcome
// news item. Every step is skipped when its data already exists.
func (s *Seeder) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}

	created, err := s.categories.EnsureDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if created > 0 {
		slog.InfoContext(ctx, "seeded categories", "count", created)
	}

	admin, err := s.ensureAdmin(ctx)
	if err != nil {
		return err
	}

	if !s.cfg.SampleData {
		return nil
	}

	if err := s.ensureEvents(ctx, admin.ID); err != nil {
		return err
	}

	return s.ensureNews(ctx, admin.ID)
}

func (s *Seeder) ensureAdmin(ctx context.Context) (*user.User, error) {
	email := user.NormalizeEmail(s.cfg.AdminEmail)

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	hash, err := core.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	prefs := user.DefaultNotificationPreferences()
	prefs.Enabled = true
	for _, key := range user.PreferenceKeys {
		prefs.Categories[key] = true
	}
	prefs.ReminderTimes = []string{user.Reminder24h, user.Reminder1h}

	admin := &user.User{
		Email:                   email,
		Name:                    adminName,
		PasswordHash:            &hash,
		Role:                    user.RoleAdmin,
		AuthType:                user.AuthTypeEmail,
		NotificationPreferences: prefs,
	}

	if err := s.users.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	slog.InfoContext(ctx, "seeded admin user", "email", email, "user_id", admin.ID)
	return admin, nil
}

func (s *Seeder) ensureEvents(ctx context.Context, adminID string) error {
	n, err := s.events.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed events: %w", err)
	}
	if n > 0 {
		return nil
	}

	today := s.now().Truncate(24 * time.Hour)
	tomorrow := today.AddDate(0, 0, 1)
	later := today.AddDate(0, 0, 5)

	samples := []event.Event{
		{
			Title:       "Öppen spelkväll - Tisdag",
			Description: "Välkommen till vår öppna spelkväll! Ta med vänner eller kom ensam - vi har spel för alla.",
			Location:    venue,
			StartTime:   tomorrow.Add(18 * time.Hour),
			EndTime:     tomorrow.Add(21*time.Hour + 30*time.Minute),
			Category:    user.PrefOpenGameNight,
			CreatedBy:   adminID,
		},
		{
			Title:       "Medlemskväll",
			Description: "Exklusiv spelkväll för BORKA-medlemmar. Provspela nya spel innan de släpps!",
			Location:    venue,
			StartTime:   later.Add(18 * time.Hour),
			EndTime:     later.Add(22 * time.Hour),
			Category:    user.PrefMemberNight,
			CreatedBy:   adminID,
		},
	}

	for i := range samples {
		if err := s.events.Store(ctx, &samples[i]); err != nil {
			return fmt.Errorf("seed events: %w", err)
		}
	}

	slog.InfoContext(ctx, "seeded sample events", "count", len(samples))
	return nil
}

func (s *Seeder) ensureNews(ctx context.Context, adminID string) error {
	n, err := s.news.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed news: %w", err)
	}
	if n > 0 {
		return nil
	}

	welcome := &news.News{
		Title:     "Välkommen till BORKA-appen!",
		Body:      welcomeBody,
		CreatedBy: adminID,
	}

	if err := s.news.Store(ctx, welcome); err != nil {
		return fmt.Errorf("seed news: %w", err)
	}

	slog.InfoContext(ctx, "seeded welcome news")
	return nil
}

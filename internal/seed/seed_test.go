// AngelaMos | 2026
// seed_test.go

package seed

import (
	"context"
	"testing"
	"time"

	"github.com/borka-sandviken/borka-api/internal/config"
	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/event"
	"github.com/borka-sandviken/borka-api/internal/news"
	"github.com/borka-sandviken/borka-api/internal/user"
)

type fakeCategories struct {
	calls int
}

func (f *fakeCategories) EnsureDefaults(context.Context) (int, error) {
	f.calls++
	if f.calls == 1 {
		return 4, nil
	}
	return 0, nil
}

type fakeUsers struct {
	byEmail map[string]*user.User
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(_ context.Context, u *user.User) error {
	u.ID = "user_seeded0001"
	f.byEmail[u.Email] = u
	return nil
}

type fakeEvents struct {
	stored []event.Event
}

func (f *fakeEvents) Count(context.Context) (int64, error) { return int64(len(f.stored)), nil }

func (f *fakeEvents) Store(_ context.Context, e *event.Event) error {
	f.stored = append(f.stored, *e)
	return nil
}

type fakeNews struct {
	stored []news.News
}

func (f *fakeNews) Count(context.Context) (int64, error) { return int64(len(f.stored)), nil }

func (f *fakeNews) Store(_ context.Context, n *news.News) error {
	f.stored = append(f.stored, *n)
	return nil
}

type fixture struct {
	categories *fakeCategories
	users      *fakeUsers
	events     *fakeEvents
	news       *fakeNews
}

func newSeeder(cfg config.SeedConfig) (*Seeder, *fixture) {
	f := &fixture{
		categories: &fakeCategories{},
		users:      &fakeUsers{byEmail: map[string]*user.User{}},
		events:     &fakeEvents{},
		news:       &fakeNews{},
	}
	s := New(cfg, f.categories, f.users, f.events, f.news)
	s.now = func() time.Time { return time.Date(2025, 1, 20, 15, 45, 0, 0, time.UTC) }
	return s, f
}

func TestRunSeedsEverythingOnce(t *testing.T) {
	s, f := newSeeder(config.SeedConfig{
		Enabled:       true,
		SampleData:    true,
		AdminEmail:    "Admin@Borka.se",
		AdminPassword: "borka2024",
	})
	ctx := context.Background()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	admin, ok := f.users.byEmail["admin@borka.se"]
	if !ok {
		t.Fatal("admin not created")
	}
	if admin.Role != user.RoleAdmin || admin.Name != "BORKA Admin" {
		t.Errorf("admin = %+v", admin)
	}
	valid, err := core.VerifyPassword("borka2024", *admin.PasswordHash)
	if err != nil || !valid {
		t.Errorf("admin password does not verify: %v", err)
	}
	prefs := admin.NotificationPreferences
	if !prefs.Enabled || !prefs.Wants(user.PrefNews) || !prefs.Wants(user.PrefTournament) {
		t.Errorf("admin prefs = %+v", prefs)
	}
	if len(prefs.ReminderTimes) != 2 || prefs.ReminderTimes[0] != "24h" || prefs.ReminderTimes[1] != "1h" {
		t.Errorf("reminder times = %v", prefs.ReminderTimes)
	}

	if len(f.events.stored) != 2 {
		t.Fatalf("events = %d", len(f.events.stored))
	}
	first := f.events.stored[0]
	wantStart := time.Date(2025, 1, 21, 18, 0, 0, 0, time.UTC)
	if !first.StartTime.Equal(wantStart) || first.CreatedBy != admin.ID {
		t.Errorf("first event = %+v", first)
	}
	if second := f.events.stored[1]; !second.StartTime.Equal(time.Date(2025, 1, 25, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("second event start = %v", second.StartTime)
	}

	if len(f.news.stored) != 1 || f.news.stored[0].Title != "Välkommen till BORKA-appen!" {
		t.Errorf("news = %+v", f.news.stored)
	}

	if err := s.Run(ctx); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if len(f.events.stored) != 2 || len(f.news.stored) != 1 || len(f.users.byEmail) != 1 {
		t.Error("second run duplicated data")
	}
}

func TestRunWithoutSampleData(t *testing.T) {
	s, f := newSeeder(config.SeedConfig{Enabled: true, AdminEmail: "admin@borka.se", AdminPassword: "x"})

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(f.users.byEmail) != 1 || len(f.events.stored) != 0 || len(f.news.stored) != 0 {
		t.Errorf("unexpected sample data: events %d news %d", len(f.events.stored), len(f.news.stored))
	}
}

func TestRunDisabled(t *testing.T) {
	s, f := newSeeder(config.SeedConfig{Enabled: false, SampleData: true})

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.categories.calls != 0 || len(f.users.byEmail) != 0 {
		t.Error("disabled seeder touched the stores")
	}
}

// AngelaMos | 2026
// service_test.go

package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/middleware"
	"github.com/borka-sandviken/borka-api/internal/notify"
)

type memoryRepo struct {
	rows map[string]News
}

func (m *memoryRepo) Create(_ context.Context, n *News) error {
	if err := n.Validate(); err != nil {
		return err
	}
	m.rows[n.ID] = *n
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*News, error) {
	n, ok := m.rows[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &n, nil
}

func (m *memoryRepo) Update(_ context.Context, n *News) error {
	if _, ok := m.rows[n.ID]; !ok {
		return core.ErrNotFound
	}
	m.rows[n.ID] = *n
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryRepo) List(_ context.Context, limit int) ([]News, error) {
	out := make([]News, 0, len(m.rows))
	for _, n := range m.rows {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishDate.After(out[j].PublishDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

type recordingNotifier struct {
	jobs []notify.Job
}

func (n *recordingNotifier) Enqueue(_ context.Context, job notify.Job) {
	n.jobs = append(n.jobs, job)
}

func newTestService() (*Service, *memoryRepo, *recordingNotifier) {
	repo := &memoryRepo{rows: map[string]News{}}
	notifier := &recordingNotifier{}
	return NewService(repo, notifier), repo, notifier
}

func TestCreateNotifiesSubscribers(t *testing.T) {
	svc, _, notifier := newTestService()

	n, err := svc.Create(context.Background(), "user_admin", CreateNewsRequest{
		Title: "Välkommen!",
		Body:  "Nu finns <i>appen</i>.",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if n.Body != "Nu finns appen." {
		t.Errorf("body = %q", n.Body)
	}
	if n.PublishDate.IsZero() || n.CreatedBy != "user_admin" {
		t.Errorf("news = %+v", n)
	}
	if len(notifier.jobs) != 1 || notifier.jobs[0].Kind != notify.KindNews || notifier.jobs[0].NewsID != n.ID {
		t.Errorf("jobs = %+v", notifier.jobs)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"Äldst", "Mitten", "Nyast"} {
		publish := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return publish }
		if _, err := svc.Create(ctx, "user_admin", CreateNewsRequest{Title: title, Body: "x"}); err != nil {
			t.Fatal(err)
		}
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || items[0].Title != "Nyast" || items[2].Title != "Äldst" {
		t.Errorf("order = %v", items)
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _, notifier := newTestService()
	ctx := context.Background()

	image := "data:image/png;base64,AAAA"
	n, err := svc.Create(ctx, "user_admin", CreateNewsRequest{Title: "Rubrik", Body: "Text", Image: &image})
	if err != nil {
		t.Fatal(err)
	}
	notifier.jobs = nil

	body := "Ny text"
	updated, err := svc.Update(ctx, n.ID, UpdateNewsRequest{Body: &body})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Rubrik" || updated.Body != "Ny text" || updated.Image == nil {
		t.Errorf("updated = %+v", updated)
	}
	if len(notifier.jobs) != 0 {
		t.Error("update sent a notification")
	}

	empty := "   "
	if _, err := svc.Update(ctx, n.ID, UpdateNewsRequest{Body: &empty}); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("blank body error = %v", err)
	}
}

type stubAuth struct {
	principal *middleware.Principal
}

func (s *stubAuth) AuthenticatePrincipal(context.Context, http.Header) (*middleware.Principal, error) {
	return s.principal, nil
}

func TestHandlerRoutes(t *testing.T) {
	svc, repo, _ := newTestService()
	auth := &stubAuth{principal: &middleware.Principal{UserID: "user_a", Role: "admin"}}

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(auth), middleware.RequireAdmin)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/news", strings.NewReader(`{"title":"Hej","body":"Text"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}

	var id string
	for k := range repo.rows {
		id = k
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news/"+id, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"title":"Hej"`) {
		t.Errorf("get = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/news", strings.NewReader(`{"title":""}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid create = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/news/"+id, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("delete = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/news/"+id, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted = %d", rec.Code)
	}
}

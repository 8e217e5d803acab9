// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy(context.Context) error { return nil }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		deps   []Dependency
		status int
		body   string
	}{
		{
			name:   "all healthy",
			deps:   []Dependency{{Name: "mongo", Checker: pingFunc(healthy)}, {Name: "redis", Checker: pingFunc(healthy)}},
			status: http.StatusOK,
			body:   StatusOK,
		},
		{
			name: "redis down",
			deps: []Dependency{
				{Name: "postgres", Checker: pingFunc(healthy)},
				{Name: "redis", Checker: pingFunc(func(context.Context) error { return errors.New("refused") })},
			},
			status: http.StatusServiceUnavailable,
			body:   StatusDegraded,
		},
		{
			name:   "missing checker",
			deps:   []Dependency{{Name: "postgres"}},
			status: http.StatusServiceUnavailable,
			body:   StatusDegraded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler("1.0.0", tt.deps...), "/readyz")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}

			var resp ReadinessResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Status != tt.body || resp.Version != "1.0.0" || len(resp.Checks) != len(tt.deps) {
				t.Errorf("response = %+v", resp)
			}
			for i, c := range resp.Checks {
				if c.Name != tt.deps[i].Name {
					t.Errorf("check %d name = %q, want %q", i, c.Name, tt.deps[i].Name)
				}
			}
		})
	}
}

func TestShutdownFailsProbes(t *testing.T) {
	h := NewHandler("1.0.0")

	if rec := serve(h, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}

	h.SetShutdown(true)
	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		if rec := serve(h, path); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s = %d after shutdown", path, rec.Code)
		}
	}
}

func TestNotReady(t *testing.T) {
	h := NewHandler("1.0.0")
	h.SetReady(false)

	if rec := serve(h, "/readyz"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz = %d", rec.Code)
	}
}

// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/borka-sandviken/borka-api/internal/middleware"
)

func passthrough(next http.Handler) http.Handler { return next }

func newTestRouter(t *testing.T, secure bool) (*chi.Mux, *fixture) {
	t.Helper()
	f := newFixture(t)
	h := NewHandler(f.svc, secure)

	r := chi.NewRouter()
	h.RegisterRoutes(r, middleware.Authenticator(f.svc), passthrough)
	return r, f
}

func TestHandlerRegisterSetsCookie(t *testing.T) {
	r, _ := newTestRouter(t, true)

	body := `{"email":"anna@example.se","password":"hemligt123","name":"Anna"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != testCookie || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteNoneMode {
		t.Errorf("cookie attributes = %+v", c)
	}
	if c.MaxAge != 7*24*60*60 {
		t.Errorf("MaxAge = %d, want seven days", c.MaxAge)
	}

	var resp AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionToken != c.Value {
		t.Error("body token differs from cookie")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response mentions password")
	}
}

func TestHandlerLoginErrors(t *testing.T) {
	r, _ := newTestRouter(t, false)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{`, http.StatusBadRequest},
		{"missing password", `{"email":"anna@example.se"}`, http.StatusBadRequest},
		{"unknown user", `{"email":"ingen@example.se","password":"x"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestHandlerRegisterRejectsMarkupOnlyName(t *testing.T) {
	r, f := newTestRouter(t, false)

	body := `{"email":"anna@example.se","password":"hemligt123","name":"<b></b>"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("rejected registration set a cookie")
	}
	if _, err := f.users.GetByEmail(context.Background(), "anna@example.se"); err == nil {
		t.Error("rejected registration stored a user")
	}
}

func TestHandlerMeAndLogout(t *testing.T) {
	r, f := newTestRouter(t, false)
	result := f.register(t, "anna@example.se", "hemligt123", "Anna")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous /me status = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: result.SessionToken})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("/me status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"email":"anna@example.se"`) {
		t.Errorf("/me body = %s", rec.Body.String())
	}

	for i := 0; i < 2; i++ {
		req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer "+result.SessionToken)
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("logout #%d status = %d", i+1, rec.Code)
		}
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
			t.Errorf("logout #%d did not clear cookie: %+v", i+1, cookies)
		}
	}
}

func TestHandlerExchangeInvalid(t *testing.T) {
	r, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/auth/session", strings.NewReader(`{"session_id":"nope"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

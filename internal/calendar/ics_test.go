// AngelaMos | 2026
// ics_test.go

package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/borka-sandviken/borka-api/internal/config"
	"github.com/borka-sandviken/borka-api/internal/core"
)

func gameNight() Event {
	return Event{
		ID:    "evt-1",
		Title: "Game Night",
		Start: time.Date(2025, 1, 20, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 20, 21, 0, 0, 0, time.UTC),
	}
}

func TestRenderGameNight(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)
	out := Render([]Event{gameNight()}, now)

	for _, want := range []string{
		"UID:evt-1@borka-sandviken.se\r\n",
		"DTSTART:20250120T180000Z\r\n",
		"DTEND:20250120T210000Z\r\n",
		"SUMMARY:Game Night\r\n",
		"LOCATION:Odengatan 31, Sandviken\r\n",
		"DTSTAMP:20250101T093000Z\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if !strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(out, "END:VCALENDAR\r\n") {
		t.Errorf("bad wrapper:\n%s", out)
	}
}

func TestRenderSingleWrapper(t *testing.T) {
	now := time.Now()

	for _, n := range []int{0, 1, 3} {
		events := make([]Event, n)
		for i := range events {
			events[i] = gameNight()
		}

		out := Render(events, now)
		if c := strings.Count(out, "BEGIN:VCALENDAR"); c != 1 {
			t.Errorf("%d events: %d BEGIN:VCALENDAR", n, c)
		}
		if c := strings.Count(out, "END:VCALENDAR"); c != 1 {
			t.Errorf("%d events: %d END:VCALENDAR", n, c)
		}
		if c := strings.Count(out, "BEGIN:VEVENT"); c != n {
			t.Errorf("%d events: %d VEVENT blocks", n, c)
		}
	}
}

func TestRenderLineEndings(t *testing.T) {
	ev := gameNight()
	ev.Description = "Rad ett\nRad två\r\nRad tre"

	out := Render([]Event{ev}, time.Now())

	if strings.Contains(strings.ReplaceAll(out, "\r\n", ""), "\n") {
		t.Error("bare LF in output")
	}
	if !strings.Contains(out, "DESCRIPTION:Rad ett Rad två Rad tre\r\n") {
		t.Errorf("description not collapsed:\n%s", out)
	}
}

func TestExporterUsesConfig(t *testing.T) {
	e := NewExporter(config.CalendarConfig{UIDDomain: "example.org", Name: "Test"})
	out := e.Render([]Event{gameNight()}, time.Now())

	if !strings.Contains(out, "UID:evt-1@example.org\r\n") || !strings.Contains(out, "X-WR-CALNAME:Test\r\n") {
		t.Errorf("config ignored:\n%s", out)
	}
	if !strings.Contains(out, "PRODID:"+DefaultProductID+"\r\n") {
		t.Error("default product id missing")
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, 1, 20, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
	}{
		{"zulu", "2025-01-20T18:00:00Z"},
		{"offset", "2025-01-20T19:00:00+01:00"},
		{"fraction", "2025-01-20T18:00:00.000000Z"},
		{"naive", "2025-01-20T18:00:00"},
		{"space", "2025-01-20 18:00:00+00:00"},
		{"structured", want.In(time.FixedZone("CET", 3600))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if err != nil {
				t.Fatalf("ParseTime(%v) error = %v", tt.in, err)
			}
			if !got.Equal(want) || got.Location() != time.UTC {
				t.Errorf("ParseTime(%v) = %v", tt.in, got)
			}
		})
	}

	if _, err := ParseTime("igår"); err == nil {
		t.Error("expected error for garbage")
	}
	if _, err := ParseTime(42); err == nil {
		t.Error("expected error for int")
	}
}

type mockSource struct {
	events []Event
}

func (m *mockSource) CalendarEvents(_ context.Context, limit int) ([]Event, error) {
	if len(m.events) > limit {
		return m.events[:limit], nil
	}
	return m.events, nil
}

func (m *mockSource) CalendarEvent(_ context.Context, id string) (*Event, error) {
	for _, e := range m.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, core.ErrNotFound
}

func TestHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(&mockSource{events: []Event{gameNight()}}, NewExporter(config.CalendarConfig{})).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calendar/ics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("feed status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=borka-kalender.ics" {
		t.Errorf("content disposition = %q", cd)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calendar/event/evt-1/ics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "SUMMARY:Game Night") {
		t.Errorf("single = %d %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=borka-event-evt-1.ics" {
		t.Errorf("content disposition = %q", cd)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calendar/event/saknas/ics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing event status = %d", rec.Code)
	}
}

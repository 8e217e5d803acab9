// AngelaMos | 2026
// handler.go

package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/borka-sandviken/borka-api/internal/core"
)

const feedLimit = 500

type EventSource interface {
	CalendarEvents(ctx context.Context, limit int) ([]Event, error)
	CalendarEvent(ctx context.Context, id string) (*Event, error)
}

type Handler struct {
	source   EventSource
	exporter *Exporter
	now      func() time.Time
}

func NewHandler(source EventSource, exporter *Exporter) *Handler {
	return &Handler{
		source:   source,
		exporter: exporter,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.Get("/ics", h.Feed)
		r.Get("/event/{eventID}/ics", h.Single)
	})
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	events, err := h.source.CalendarEvents(r.Context(), feedLimit)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.write(w, r, "borka-kalender.ics", events)
}

func (h *Handler) Single(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	event, err := h.source.CalendarEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "event")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	h.write(w, r, fmt.Sprintf("borka-event-%s.ics", eventID), []Event{*event})
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, filename string, events []Event) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)

	if err := h.exporter.Write(w, events, h.now()); err != nil {
		slog.WarnContext(r.Context(), "write calendar", "error", err)
	}
}

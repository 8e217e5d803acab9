// AngelaMos | 2026
// handler.go

package event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/middleware"
)

// Event images arrive inline as data URIs.
const maxBodyBytes = 8 << 20

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{eventID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Post("/", h.Create)
			r.Put("/{eventID}", h.Update)
			r.Delete("/{eventID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	upcoming := true
	if raw := r.URL.Query().Get("upcoming"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			core.BadRequest(w, "upcoming must be true or false")
			return
		}
		upcoming = parsed
	}

	events, err := h.service.List(r.Context(), r.URL.Query().Get("category"), upcoming)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToEventResponseList(events))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToEventResponse(e))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !core.DecodeJSON(w, r, h.validator, &req, maxBodyBytes) {
		return
	}

	e, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, ToEventResponse(e))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateEventRequest
	if !core.DecodeJSON(w, r, h.validator, &req, maxBodyBytes) {
		return
	}

	e, err := h.service.Update(r.Context(), chi.URLParam(r, "eventID"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToEventResponse(e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, MessageResponse{Message: "event deleted"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "event")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid event data")
	default:
		core.InternalServerError(w, err)
	}
}

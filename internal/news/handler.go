// AngelaMos | 2026
// handler.go

package news

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/middleware"
)

// Inline images make news bodies large.
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
	r.Route("/news", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{newsID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Post("/", h.Create)
			r.Put("/{newsID}", h.Update)
			r.Delete("/{newsID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToNewsResponseList(items))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Get(r.Context(), chi.URLParam(r, "newsID"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToNewsResponse(n))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNewsRequest
	if !core.DecodeJSON(w, r, h.validator, &req, maxBodyBytes) {
		return
	}

	n, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, ToNewsResponse(n))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateNewsRequest
	if !core.DecodeJSON(w, r, h.validator, &req, maxBodyBytes) {
		return
	}

	n, err := h.service.Update(r.Context(), chi.URLParam(r, "newsID"), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToNewsResponse(n))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "newsID")); err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, MessageResponse{Message: "news deleted"})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "news")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid news data")
	default:
		core.InternalServerError(w, err)
	}
}

// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/middleware"
	"github.com/borka-sandviken/borka-api/internal/user"
)

type Handler struct {
	service      *Service
	validator    *validator.Validate
	secureCookie bool
}

func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{
		service:      service,
		validator:    core.NewValidator(),
		secureCookie: secureCookie,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	limiter func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(limiter)

		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/session", h.ExchangeSession)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
		})
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !core.DecodeJSON(w, r, h.validator, &req, core.DefaultMaxBody) {
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.SessionToken, result.ExpiresAt)
	core.OK(w, ToAuthResponse(result))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !core.DecodeJSON(w, r, h.validator, &req, core.DefaultMaxBody) {
		return
	}

	result, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.SessionToken, result.ExpiresAt)
	core.OK(w, ToAuthResponse(result))
}

func (h *Handler) ExchangeSession(w http.ResponseWriter, r *http.Request) {
	var req ExternalSessionRequest
	if !core.DecodeJSON(w, r, h.validator, &req, core.DefaultMaxBody) {
		return
	}

	result, err := h.service.ExchangeExternalIdentity(r.Context(), req.SessionID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.setSessionCookie(w, result.SessionToken, result.ExpiresAt)
	core.OK(w, ToAuthResponse(result))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), r.Header); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.clearSessionCookie(w)
	core.OK(w, MessageResponse{Message: "logged out"})
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	u, err := h.service.GetCurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, user.ToUserResponse(u))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		core.JSONError(w, core.NewAppError(
			core.ErrUnauthorized,
			"invalid email or password",
			http.StatusUnauthorized,
			"INVALID_CREDENTIALS",
		))
	case errors.Is(err, ErrEmailExists):
		core.JSONError(w, core.NewAppError(
			core.ErrDuplicateKey,
			"email already registered",
			http.StatusBadRequest,
			"EMAIL_EXISTS",
		))
	case errors.Is(err, ErrInvalidExternalSession):
		core.JSONError(w, core.NewAppError(
			core.ErrUnauthorized,
			"invalid session",
			http.StatusUnauthorized,
			"INVALID_EXTERNAL_SESSION",
		))
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid user data")
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.service.CookieName(),
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(h.service.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: h.sameSite(),
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.service.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: h.sameSite(),
	})
}

// Browsers drop SameSite=None cookies that are not Secure.
func (h *Handler) sameSite() http.SameSite {
	if h.secureCookie {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

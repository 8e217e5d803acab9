// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/borka-sandviken/borka-api/internal/core"
)

const (
	PrincipalKey       contextKey = "principal"
	principalHolderKey contextKey = "principal_holder"

	RoleAdmin = "admin"
)

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

// SessionAuthenticator resolves the caller from request headers. A nil
// principal with a nil error means no valid session was presented.
type SessionAuthenticator interface {
	AuthenticatePrincipal(ctx context.Context, h http.Header) (*Principal, error)
}

type principalHolder struct {
	principal *Principal
}

func Authenticator(auth SessionAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.AuthenticatePrincipal(r.Context(), r.Header)
			if err != nil {
				core.JSONError(w, core.InternalError(err))
				return
			}

			if principal == nil {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func OptionalAuth(auth SessionAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.AuthenticatePrincipal(r.Context(), r.Header)
			if err == nil && principal != nil {
				r = r.WithContext(WithPrincipal(r.Context(), principal))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole answers 401 when no principal is present and 403 when the
// principal's role is not listed.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r.Context())

			if principal == nil {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			if _, ok := roleSet[principal.Role]; !ok {
				core.Forbidden(w, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin)(next)
}

// ExtractSessionToken returns the session token carried by the headers.
// The named cookie wins over an Authorization bearer token.
func ExtractSessionToken(h http.Header, cookieName string) string {
	req := &http.Request{Header: h}
	if cookie, err := req.Cookie(cookieName); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value
		}
	}

	return ExtractBearerToken(h)
}

func ExtractBearerToken(h http.Header) string {
	authHeader := h.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	if holder, ok := ctx.Value(principalHolderKey).(*principalHolder); ok {
		holder.principal = p
	}
	return context.WithValue(ctx, PrincipalKey, p)
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.UserID
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.Role
	}
	return ""
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == RoleAdmin
}

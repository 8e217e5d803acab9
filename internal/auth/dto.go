// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/borka-sandviken/borka-api/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
}

type ExternalSessionRequest struct {
	SessionID string `json:"session_id" validate:"required,max=512"`
}

// AuthResult is the outcome of a successful sign-in.
type AuthResult struct {
	User         *user.User
	SessionToken string
	ExpiresAt    time.Time
}

type AuthResponse struct {
	User         user.UserResponse `json:"user"`
	SessionToken string            `json:"session_token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func ToAuthResponse(r *AuthResult) AuthResponse {
	return AuthResponse{
		User:         user.ToUserResponse(r.User),
		SessionToken: r.SessionToken,
	}
}

// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Name                    *string                         `json:"name,omitempty"                     validate:"omitempty,min=1,max=100"`
	Phone                   *string                         `json:"phone,omitempty"                    validate:"omitempty,max=32"`
	NotificationPreferences *NotificationPreferencesRequest `json:"notification_preferences,omitempty"`
	PushToken               *string                         `json:"push_token,omitempty"               validate:"omitempty,max=512"`
}

type NotificationPreferencesRequest struct {
	Enabled       bool            `json:"enabled"`
	Categories    map[string]bool `json:"categories"`
	ReminderTimes []string        `json:"reminder_times" validate:"omitempty,dive,oneof=24h 3h 1h"`
}

type PushTokenRequest struct {
	PushToken string `json:"push_token" validate:"required,max=512"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member guest"`
}

type UserResponse struct {
	ID                      string                  `json:"user_id"`
	Email                   string                  `json:"email"`
	Name                    string                  `json:"name"`
	Phone                   *string                 `json:"phone"`
	Picture                 *string                 `json:"picture"`
	Role                    string                  `json:"role"`
	AuthType                string                  `json:"auth_type"`
	PushToken               *string                 `json:"push_token"`
	NotificationPreferences NotificationPreferences `json:"notification_preferences"`
	CreatedAt               time.Time               `json:"created_at"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                      u.ID,
		Email:                   u.Email,
		Name:                    u.Name,
		Phone:                   u.Phone,
		Picture:                 u.Picture,
		Role:                    u.Role,
		AuthType:                u.AuthType,
		PushToken:               u.PushToken,
		NotificationPreferences: u.NotificationPreferences,
		CreatedAt:               u.CreatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}

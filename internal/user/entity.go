// AngelaMos | 2026
// entity.go

package user

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/borka-sandviken/borka-api/internal/core"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleGuest  = "guest"
)

const (
	AuthTypeEmail    = "email"
	AuthTypeExternal = "external"
)

// Notification preference keys. Event categories use their slug; news has
// its own key.
const (
	PrefOpenGameNight = "open_game_night"
	PrefMemberNight   = "member_night"
	PrefTournament    = "tournament"
	PrefSpecialEvent  = "special_event"
	PrefNews          = "news"
)

var PreferenceKeys = []string{
	PrefOpenGameNight,
	PrefMemberNight,
	PrefTournament,
	PrefSpecialEvent,
	PrefNews,
}

const (
	Reminder24h = "24h"
	Reminder3h  = "3h"
	Reminder1h  = "1h"
)

type User struct {
	ID                      string                  `db:"id"                       bson:"user_id"`
	Email                   string                  `db:"email"                    bson:"email"`
	Name                    string                  `db:"name"                     bson:"name"`
	Phone                   *string                 `db:"phone"                    bson:"phone,omitempty"`
	Picture                 *string                 `db:"picture"                  bson:"picture,omitempty"`
	Role                    string                  `db:"role"                     bson:"role"`
	PasswordHash            *string                 `db:"password_hash"            bson:"password_hash,omitempty"`
	AuthType                string                  `db:"auth_type"                bson:"auth_type"`
	PushToken               *string                 `db:"push_token"               bson:"push_token,omitempty"`
	NotificationPreferences NotificationPreferences `db:"notification_preferences" bson:"notification_preferences"`
	CreatedAt               time.Time               `db:"created_at"               bson:"created_at"`
	UpdatedAt               time.Time               `db:"updated_at"               bson:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) HasPushToken() bool {
	return u.PushToken != nil && *u.PushToken != ""
}

// Validate rejects records that lack the fields every stored user must
// carry. It runs before writes and after reads.
func (u *User) Validate() error {
	switch {
	case u.ID == "":
		return fmt.Errorf("user: missing id: %w", core.ErrInvalidInput)
	case u.Email == "":
		return fmt.Errorf("user %s: missing email: %w", u.ID, core.ErrInvalidInput)
	case u.Name == "":
		return fmt.Errorf("user %s: missing name: %w", u.ID, core.ErrInvalidInput)
	case !ValidRole(u.Role):
		return fmt.Errorf("user %s: invalid role %q: %w", u.ID, u.Role, core.ErrInvalidInput)
	case u.AuthType != AuthTypeEmail && u.AuthType != AuthTypeExternal:
		return fmt.Errorf(
			"user %s: invalid auth type %q: %w",
			u.ID,
			u.AuthType,
			core.ErrInvalidInput,
		)
	}
	return nil
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleMember, RoleGuest:
		return true
	}
	return false
}

func NewID() string {
	return "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type NotificationPreferences struct {
	Enabled       bool            `json:"enabled"        bson:"enabled"`
	Categories    map[string]bool `json:"categories"     bson:"categories"`
	ReminderTimes []string        `json:"reminder_times" bson:"reminder_times"`
}

func DefaultNotificationPreferences() NotificationPreferences {
	categories := make(map[string]bool, len(PreferenceKeys))
	for _, key := range PreferenceKeys {
		categories[key] = false
	}

	return NotificationPreferences{
		Enabled:       false,
		Categories:    categories,
		ReminderTimes: []string{Reminder24h},
	}
}

// Wants reports whether a push for the given preference key should reach
// this user.
func (p NotificationPreferences) Wants(key string) bool {
	return p.Enabled && p.Categories[key]
}

func (p NotificationPreferences) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode notification preferences: %w", err)
	}
	return string(b), nil
}

func (p *NotificationPreferences) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = DefaultNotificationPreferences()
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan notification preferences: unsupported type %T", src)
	}

	var prefs NotificationPreferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return fmt.Errorf("decode notification preferences: %w", err)
	}
	if prefs.Categories == nil {
		prefs.Categories = map[string]bool{}
	}

	*p = prefs
	return nil
}

// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/borka-sandviken/borka-api/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// Create stores a new user, filling the id, preferences and auth type when
// the caller left them empty.
func (s *Service) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	u.Email = NormalizeEmail(u.Email)
	u.Name = core.SanitizeText(u.Name)
	if u.Role == "" {
		u.Role = RoleMember
	}
	if u.AuthType == "" {
		u.AuthType = AuthTypeEmail
	}
	if u.NotificationPreferences.Categories == nil {
		u.NotificationPreferences = DefaultNotificationPreferences()
	}

	return s.repo.Create(ctx, u)
}

func (s *Service) Save(ctx context.Context, u *User) error {
	return s.repo.Update(ctx, u)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.ExistsByEmail(ctx, NormalizeEmail(email))
}

func (s *Service) AdminExists(ctx context.Context) (bool, error) {
	return s.repo.ExistsByRole(ctx, RoleAdmin)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := core.SanitizeText(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("update me: empty name: %w", core.ErrInvalidInput)
		}
		u.Name = name
	}

	if req.Phone != nil {
		u.Phone = optionalString(core.SanitizeText(*req.Phone))
	}

	if req.PushToken != nil {
		u.PushToken = optionalString(strings.TrimSpace(*req.PushToken))
	}

	if req.NotificationPreferences != nil {
		u.NotificationPreferences = mergePreferences(*req.NotificationPreferences)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) UpdatePushToken(
	ctx context.Context,
	userID, token string,
) (*User, error) {
	token = strings.TrimSpace(token)
	return s.UpdateMe(ctx, userID, UpdateProfileRequest{PushToken: &token})
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Role = role

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// Recipients returns users with push enabled for the given preference key.
func (s *Service) Recipients(
	ctx context.Context,
	prefKey string,
	limit int,
) ([]User, error) {
	return s.repo.ListRecipients(ctx, prefKey, limit)
}

func mergePreferences(req NotificationPreferencesRequest) NotificationPreferences {
	prefs := DefaultNotificationPreferences()
	prefs.Enabled = req.Enabled

	for _, key := range PreferenceKeys {
		if v, ok := req.Categories[key]; ok {
			prefs.Categories[key] = v
		}
	}

	if req.ReminderTimes != nil {
		prefs.ReminderTimes = append([]string{}, req.ReminderTimes...)
	}

	return prefs
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/borka-sandviken/borka-api/internal/config"
	"github.com/borka-sandviken/borka-api/internal/core"
	"github.com/borka-sandviken/borka-api/internal/middleware"
	"github.com/borka-sandviken/borka-api/internal/user"
)

var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrEmailExists            = errors.New("email already registered")
	ErrInvalidExternalSession = errors.New("invalid external session")
)

const (
	MethodPassword = "password"
	MethodRegister = "register"
	MethodExternal = "external"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// UserStore is the slice of the credential store the auth flows need.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	Save(ctx context.Context, u *user.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	EmailExists(ctx context.Context, email string) (bool, error)
	AdminExists(ctx context.Context) (bool, error)
}

// Recorder observes authentication outcomes.
type Recorder interface {
	RecordAuth(method, outcome string)
}

type Service struct {
	repo        Repository
	users       UserStore
	identity    IdentityExchanger
	recorder    Recorder
	sessionTTL  time.Duration
	cookieName  string
	adminEmails map[string]struct{}
	now         func() time.Time
}

func NewService(
	repo Repository,
	users UserStore,
	identity IdentityExchanger,
	cfg config.AuthConfig,
) *Service {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		admins[user.NormalizeEmail(email)] = struct{}{}
	}

	return &Service{
		repo:        repo,
		users:       users,
		identity:    identity,
		sessionTTL:  cfg.SessionTTL,
		cookieName:  cfg.CookieName,
		adminEmails: admins,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithRecorder(r Recorder) *Service {
	s.recorder = r
	return s
}

func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *Service) CookieName() string {
	return s.cookieName
}

// Authenticate resolves the caller from the session cookie or bearer token.
// A missing, unknown or expired session, or a session whose user no longer
// exists, yields (nil, nil). Store failures are returned as errors.
func (s *Service) Authenticate(
	ctx context.Context,
	h http.Header,
) (*user.User, error) {
	token := middleware.ExtractSessionToken(h, s.cookieName)
	if token == "" {
		return nil, nil
	}

	session, err := s.repo.FindByHash(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if session.IsExpired(s.now()) {
		return nil, nil
	}

	u, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return withoutHash(u), nil
}

// AuthenticatePrincipal adapts Authenticate for the request middleware.
func (s *Service) AuthenticatePrincipal(
	ctx context.Context,
	h http.Header,
) (*middleware.Principal, error) {
	u, err := s.Authenticate(ctx, h)
	if err != nil || u == nil {
		return nil, err
	}

	return &middleware.Principal{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}, nil
}

func (s *Service) RequireAuthenticated(
	ctx context.Context,
	h http.Header,
) (*user.User, error) {
	u, err := s.Authenticate(ctx, h)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, core.ErrUnauthorized
	}
	return u, nil
}

// RequireRole checks authentication before authorization, so an anonymous
// caller always gets ErrUnauthorized rather than ErrForbidden.
func (s *Service) RequireRole(
	ctx context.Context,
	h http.Header,
	role string,
) (*user.User, error) {
	u, err := s.RequireAuthenticated(ctx, h)
	if err != nil {
		return nil, err
	}
	if u.Role != role {
		return nil, core.ErrForbidden
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	email := user.NormalizeEmail(req.Email)

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			s.record(MethodPassword, OutcomeFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(req.Password, u.PasswordHash)
	if err != nil {
		slog.WarnContext(ctx, "stored password hash could not be verified",
			"user_id", u.ID,
			"error", err,
		)
		s.record(MethodPassword, OutcomeFailure)
		return nil, ErrInvalidCredentials
	}

	if !valid {
		s.record(MethodPassword, OutcomeFailure)
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, u.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", u.ID,
				"error", err,
			)
		}
	}

	result, err := s.startSession(ctx, u, "")
	if err != nil {
		return nil, err
	}

	s.record(MethodPassword, OutcomeSuccess)
	slog.InfoContext(ctx, "user logged in", "user_id", u.ID)

	return result, nil
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResult, error) {
	email := user.NormalizeEmail(req.Email)

	name := core.SanitizeText(req.Name)
	if name == "" {
		s.record(MethodRegister, OutcomeFailure)
		return nil, fmt.Errorf("register: name has no text: %w", core.ErrInvalidInput)
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		s.record(MethodRegister, OutcomeFailure)
		return nil, ErrEmailExists
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Email:                   email,
		Name:                    name,
		PasswordHash:            &passwordHash,
		Role:                    user.RoleMember,
		AuthType:                user.AuthTypeEmail,
		NotificationPreferences: user.DefaultNotificationPreferences(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			s.record(MethodRegister, OutcomeFailure)
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	result, err := s.startSession(ctx, u, "")
	if err != nil {
		return nil, err
	}

	s.record(MethodRegister, OutcomeSuccess)
	slog.InfoContext(ctx, "user registered", "user_id", u.ID)

	return result, nil
}

// ExchangeExternalIdentity signs a user in with a provider session id. The
// configured admin emails, and the very first account when no admin exists,
// are promoted to admin. Existing roles are never downgraded.
func (s *Service) ExchangeExternalIdentity(
	ctx context.Context,
	sessionID string,
) (*AuthResult, error) {
	identity, err := s.identity.Exchange(ctx, sessionID)
	if err != nil {
		s.record(MethodExternal, OutcomeFailure)
		if errors.Is(err, ErrInvalidExternalSession) {
			return nil, ErrInvalidExternalSession
		}
		return nil, fmt.Errorf("exchange identity: %w", err)
	}

	email := user.NormalizeEmail(identity.Email)

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("exchange identity: %w", err)
	}

	adminExists, err := s.users.AdminExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("exchange identity: %w", err)
	}

	_, listed := s.adminEmails[email]
	isAdmin := listed || (!adminExists && existing == nil)

	var u *user.User
	if existing != nil {
		u = existing
		if name := core.SanitizeText(identity.Name); name != "" {
			u.Name = name
		}
		u.Picture = optionalString(identity.Picture)
		if isAdmin && u.Role != user.RoleAdmin {
			u.Role = user.RoleAdmin
			slog.InfoContext(ctx, "user promoted to admin", "user_id", u.ID)
		}
		if err := s.users.Save(ctx, u); err != nil {
			return nil, fmt.Errorf("exchange identity: %w", err)
		}
	} else {
		role := user.RoleMember
		if isAdmin {
			role = user.RoleAdmin
		}

		name := core.SanitizeText(identity.Name)
		if name == "" {
			name = email
		}

		u = &user.User{
			Email:                   email,
			Name:                    name,
			Picture:                 optionalString(identity.Picture),
			Role:                    role,
			AuthType:                user.AuthTypeExternal,
			NotificationPreferences: user.DefaultNotificationPreferences(),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("exchange identity: %w", err)
		}
		slog.InfoContext(ctx, "external user created", "user_id", u.ID, "role", role)
	}

	result, err := s.startSession(ctx, u, identity.SessionToken)
	if err != nil {
		return nil, err
	}

	s.record(MethodExternal, OutcomeSuccess)
	return result, nil
}

// Logout deletes the session presented in the headers. Logging out an
// unknown or already removed session is not an error.
func (s *Service) Logout(ctx context.Context, h http.Header) error {
	token := middleware.ExtractSessionToken(h, s.cookieName)
	if token == "" {
		return nil
	}

	if _, err := s.repo.DeleteByHash(ctx, core.HashToken(token)); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return withoutHash(u), nil
}

func (s *Service) ActiveSessions(ctx context.Context) (int64, error) {
	return s.repo.CountActive(ctx, s.now())
}

// startSession replaces every session of the user with a new one. The
// delete and insert are separate statements, so two concurrent logins may
// both succeed and leave two rows.
func (s *Service) startSession(
	ctx context.Context,
	u *user.User,
	token string,
) (*AuthResult, error) {
	if token == "" {
		generated, err := core.GenerateSessionToken()
		if err != nil {
			return nil, fmt.Errorf("generate session token: %w", err)
		}
		token = generated
	}

	if _, err := s.repo.DeleteAllForUser(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("clear sessions: %w", err)
	}

	now := s.now()
	session := &Session{
		TokenHash: core.HashToken(token),
		UserID:    u.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &AuthResult{
		User:         withoutHash(u),
		SessionToken: token,
		ExpiresAt:    session.ExpiresAt,
	}, nil
}

func (s *Service) record(method, outcome string) {
	if s.recorder != nil {
		s.recorder.RecordAuth(method, outcome)
	}
}

func withoutHash(u *user.User) *user.User {
	clone := *u
	clone.PasswordHash = nil
	return &clone
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

var _ middleware.SessionAuthenticator = (*Service)(nil)

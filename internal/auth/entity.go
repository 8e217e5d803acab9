// AngelaMos | 2026
// entity.go

package auth

import (
	"fmt"
	"time"

	"github.com/borka-sandviken/borka-api/internal/core"
)

// Session is the stored half of an opaque session token. Only the SHA-256
// hash of the token is persisted.
type Session struct {
	TokenHash string    `db:"token_hash" bson:"token_hash"`
	UserID    string    `db:"user_id"    bson:"user_id"`
	ExpiresAt time.Time `db:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `db:"created_at" bson:"created_at"`
}

// IsExpired reports whether the session is past its absolute expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s *Session) Validate() error {
	switch {
	case s.TokenHash == "":
		return fmt.Errorf("session: missing token hash: %w", core.ErrInvalidInput)
	case s.UserID == "":
		return fmt.Errorf("session: missing user id: %w", core.ErrInvalidInput)
	case s.ExpiresAt.IsZero():
		return fmt.Errorf("session: missing expiry: %w", core.ErrInvalidInput)
	}
	return nil
}

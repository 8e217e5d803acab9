// AngelaMos | 2026
// entity.go

package news

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/borka-sandviken/borka-api/internal/core"
)

// News is an announcement. Image holds an inline base64 payload or URL as
// sent by the app.
type News struct {
	ID          string    `db:"id"           bson:"id"`
	Title       string    `db:"title"        bson:"title"`
	Body        string    `db:"body"         bson:"body"`
	Image       *string   `db:"image"        bson:"image,omitempty"`
	PublishDate time.Time `db:"publish_date" bson:"publish_date"`
	CreatedBy   string    `db:"created_by"   bson:"created_by"`
	CreatedAt   time.Time `db:"created_at"   bson:"created_at"`
}

func (n *News) Validate() error {
	switch {
	case n.ID == "":
		return fmt.Errorf("news: missing id: %w", core.ErrInvalidInput)
	case strings.TrimSpace(n.Title) == "":
		return fmt.Errorf("news %s: missing title: %w", n.ID, core.ErrInvalidInput)
	case strings.TrimSpace(n.Body) == "":
		return fmt.Errorf("news %s: missing body: %w", n.ID, core.ErrInvalidInput)
	case n.PublishDate.IsZero():
		return fmt.Errorf("news %s: missing publish date: %w", n.ID, core.ErrInvalidInput)
	case n.CreatedBy == "":
		return fmt.Errorf("news %s: missing creator: %w", n.ID, core.ErrInvalidInput)
	}
	return nil
}

func NewID() string {
	return uuid.NewString()
}

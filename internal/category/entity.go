// AngelaMos | 2026
// entity.go

package category

import (
	"fmt"
	"regexp"

	"github.com/borka-sandviken/borka-api/internal/core"
)

const DefaultColor = "#E63946"

var (
	slugPattern  = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

type Category struct {
	ID    string `db:"id"    bson:"id"    json:"id"`
	Name  string `db:"name"  bson:"name"  json:"name"`
	Slug  string `db:"slug"  bson:"slug"  json:"slug"`
	Color string `db:"color" bson:"color" json:"color"`
}

func (c *Category) Validate() error {
	switch {
	case c.ID == "":
		return fmt.Errorf("category: missing id: %w", core.ErrInvalidInput)
	case c.Name == "":
		return fmt.Errorf("category %s: missing name: %w", c.ID, core.ErrInvalidInput)
	case !slugPattern.MatchString(c.Slug):
		return fmt.Errorf("category %s: invalid slug %q: %w", c.ID, c.Slug, core.ErrInvalidInput)
	case !colorPattern.MatchString(c.Color):
		return fmt.Errorf("category %s: invalid color %q: %w", c.ID, c.Color, core.ErrInvalidInput)
	}
	return nil
}

// Defaults is the fixed taxonomy created at first start.
func Defaults() []Category {
	return []Category{
		{ID: "cat_open", Name: "Öppen spelkväll", Slug: "open_game_night", Color: "#E63946"},
		{ID: "cat_member", Name: "Medlemskväll", Slug: "member_night", Color: "#457B9D"},
		{ID: "cat_tournament", Name: "Turnering", Slug: "tournament", Color: "#2A9D8F"},
		{ID: "cat_special", Name: "Specialevent", Slug: "special_event", Color: "#F4A261"},
	}
}

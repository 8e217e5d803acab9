// AngelaMos | 2026
// repository.go

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/borka-sandviken/borka-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, c *Category) error
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	List(ctx context.Context, limit int) ([]Category, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("create category: %w", err)
	}

	query := `INSERT INTO categories (id, name, slug, color) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.Color); err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	query := `SELECT id, name, slug, color FROM categories WHERE slug = $1`

	var c Category
	err := r.db.GetContext(ctx, &c, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]Category, error) {
	query := `SELECT id, name, slug, color FROM categories ORDER BY id LIMIT $1`

	var categories []Category
	if err := r.db.SelectContext(ctx, &categories, query, limit); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

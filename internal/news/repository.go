// AngelaMos | 2026
// repository.go

package news

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/borka-sandviken/borka-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, n *News) error
	GetByID(ctx context.Context, id string) (*News, error)
	Update(ctx context.Context, n *News) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]News, error)
	Count(ctx context.Context) (int64, error)
}

const newsColumns = `id, title, body, image, publish_date, created_by, created_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *News) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("create news: %w", err)
	}

	query := `
		INSERT INTO news (id, title, body, image, publish_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.Title,
		n.Body,
		n.Image,
		n.PublishDate,
		n.CreatedBy,
		n.CreatedAt,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create news: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create news: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*News, error) {
	query := `SELECT ` + newsColumns + ` FROM news WHERE id = $1`

	var n News
	err := r.db.GetContext(ctx, &n, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get news: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}

	return &n, nil
}

func (r *repository) Update(ctx context.Context, n *News) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("update news: %w", err)
	}

	query := `UPDATE news SET title = $2, body = $3, image = $4 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, n.ID, n.Title, n.Body, n.Image)
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}

	return requireAffected(result, "update news")
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete news: %w", err)
	}

	return requireAffected(result, "delete news")
}

func (r *repository) List(ctx context.Context, limit int) ([]News, error) {
	query := `SELECT ` + newsColumns + ` FROM news ORDER BY publish_date DESC LIMIT $1`

	var items []News
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}

	return items, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM news`); err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return n, nil
}

func requireAffected(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/foundry/internal/apperror"
	"github.com/sakif/foundry/internal/model"
	"github.com/sakif/foundry/internal/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implements repository.CategoryRepository over the shared pool.
type CategoryRepo struct {
	conn *sql.DB
}

// List returns every category row. Exactly four exist after startup
// seeding; ordering follows insertion (xid primary keys sort by creation).
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, key FROM categories ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0, len(model.CategoryKeys))
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Key); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

// FindByKey returns the category row for the given key, or
// apperror.NotFound if the row is absent.
func (r *CategoryRepo) FindByKey(ctx context.Context, key model.CategoryKey) (*model.Category, error) {
	var c model.Category

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, key FROM categories WHERE key = ?`,
		string(key),
	).Scan(&c.ID, &c.Key)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("category", string(key))
		}
		return nil, fmt.Errorf("sqlite: getting category %s: %w", key, err)
	}

	return &c, nil
}

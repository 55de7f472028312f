package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/foundry/internal/apperror"
	"github.com/sakif/foundry/internal/model"
	"github.com/sakif/foundry/internal/repository"
)

var _ repository.ComponentRepository = (*ComponentRepo)(nil)

// ComponentRepo implements repository.ComponentRepository over the shared pool.
type ComponentRepo struct {
	conn *sql.DB
}

// componentColumns is the SELECT list shared by every component read.
// The JOIN pulls the owning category's key so read results carry it without
// a second query.
const componentColumns = `
	c.id, c.title, c.use_case, c.category_id, cat.key, c.created_at, c.updated_at
	FROM components c
	JOIN categories cat ON cat.id = c.category_id`

// Create inserts a new component.
//
// ID GENERATION WITH xid:
// xid produces 20-char, URL-safe, creation-time-sortable IDs. The sort
// property is what lets "ORDER BY id" serve as insertion order in the list
// queries below.
//
// The caller's struct is mutated in place (pointer receiver): after Create
// returns, ID and both timestamps are populated.
func (r *ComponentRepo) Create(ctx context.Context, component *model.Component) error {
	component.ID = xid.New().String()

	now := time.Now()
	component.CreatedAt = now
	component.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO components (id, title, use_case, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		component.ID,
		component.Title,
		component.UseCase,
		component.CategoryID,
		component.CreatedAt,
		component.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating component: %w", err)
	}

	return nil
}

// GetByID retrieves a single component (without snippets — the service
// layer attaches those for detail responses).
func (r *ComponentRepo) GetByID(ctx context.Context, id string) (*model.Component, error) {
	var c model.Component

	err := r.conn.QueryRowContext(ctx,
		`SELECT `+componentColumns+` WHERE c.id = ?`,
		id,
	).Scan(
		&c.ID,
		&c.Title,
		&c.UseCase,
		&c.CategoryID,
		&c.Category,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("component", id)
		}
		return nil, fmt.Errorf("sqlite: getting component %s: %w", id, err)
	}

	return &c, nil
}

// List retrieves components in insertion order with offset/limit
// pagination. Limits are clamped by the service layer before they get here.
func (r *ComponentRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Component, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+componentColumns+`
		 ORDER BY c.id
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing components: %w", err)
	}
	defer rows.Close()

	return scanComponents(rows, limit)
}

// ListByCategory retrieves every component owned by the given category, in
// insertion order. No pagination — category pages render the full set.
func (r *ComponentRepo) ListByCategory(ctx context.Context, categoryID string) ([]model.Component, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+componentColumns+`
		 WHERE c.category_id = ?
		 ORDER BY c.id`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing components by category: %w", err)
	}
	defer rows.Close()

	return scanComponents(rows, 0)
}

// scanComponents drains a component result set. Always check rows.Err()
// after the loop — it catches failures that happen DURING iteration.
func scanComponents(rows *sql.Rows, capacity int) ([]model.Component, error) {
	components := make([]model.Component, 0, capacity)
	for rows.Next() {
		var c model.Component
		if err := rows.Scan(
			&c.ID, &c.Title, &c.UseCase, &c.CategoryID, &c.Category,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning component row: %w", err)
		}
		components = append(components, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating components: %w", err)
	}
	return components, nil
}

// Update writes the component's mutable fields and refreshes updated_at.
// Partial-patch decisions (which fields actually changed) happen in the
// service layer; by the time a component reaches here it is the full
// desired row state.
//
// RowsAffected == 0 means the WHERE clause matched nothing → NotFound.
// One round trip instead of SELECT-then-UPDATE.
func (r *ComponentRepo) Update(ctx context.Context, component *model.Component) error {
	component.UpdatedAt = time.Now()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE components
		 SET title = ?, use_case = ?, category_id = ?, updated_at = ?
		 WHERE id = ?`,
		component.Title,
		component.UseCase,
		component.CategoryID,
		component.UpdatedAt,
		component.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating component %s: %w", component.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("component", component.ID)
	}

	return nil
}

// Delete removes a component. The ON DELETE CASCADE on code_snippets
// removes every owned snippet in the same statement — no second query, no
// window where orphaned snippets exist.
func (r *ComponentRepo) Delete(ctx context.Context, id string) error {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM components WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting component %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("component", id)
	}

	return nil
}

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

var _ repository.SnippetRepository = (*SnippetRepo)(nil)

// SnippetRepo implements repository.SnippetRepository over the shared pool.
type SnippetRepo struct {
	conn *sql.DB
}

// Create inserts a snippet under snippet.ComponentID.
//
// The parent-existence check and the insert run in one transaction so a
// concurrent component delete cannot slip between them and leave behind a
// snippet pointing at nothing. A missing parent is the caller's NotFound,
// not a constraint violation surfaced as a 500.
func (r *SnippetRepo) Create(ctx context.Context, snippet *model.CodeSnippet) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning snippet insert: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM components WHERE id = ?`,
		snippet.ComponentID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking component %s: %w", snippet.ComponentID, err)
	}
	if exists == 0 {
		return apperror.NotFound("component", snippet.ComponentID)
	}

	snippet.ID = xid.New().String()
	snippet.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO code_snippets (id, filename, language, code, component_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Filename,
		snippet.Language,
		snippet.Code,
		snippet.ComponentID,
		snippet.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing snippet insert: %w", err)
	}

	return nil
}

// GetByID retrieves a single snippet by its ID.
func (r *SnippetRepo) GetByID(ctx context.Context, id string) (*model.CodeSnippet, error) {
	var s model.CodeSnippet

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, filename, language, code, component_id, created_at
		 FROM code_snippets WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.Filename,
		&s.Language,
		&s.Code,
		&s.ComponentID,
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &s, nil
}

// ListByComponent returns a component's snippets in insertion order.
func (r *SnippetRepo) ListByComponent(ctx context.Context, componentID string) ([]model.CodeSnippet, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, filename, language, code, component_id, created_at
		 FROM code_snippets
		 WHERE component_id = ?
		 ORDER BY id`,
		componentID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets for component %s: %w", componentID, err)
	}
	defer rows.Close()

	snippets := make([]model.CodeSnippet, 0, 8)
	for rows.Next() {
		var s model.CodeSnippet
		if err := rows.Scan(
			&s.ID, &s.Filename, &s.Language, &s.Code, &s.ComponentID, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// Update writes the snippet's mutable fields. There is deliberately no
// updated_at to refresh — the schema doesn't track snippet modification
// time. RowsAffected detects the missing-row case.
func (r *SnippetRepo) Update(ctx context.Context, snippet *model.CodeSnippet) error {
	result, err := r.conn.ExecContext(ctx,
		`UPDATE code_snippets
		 SET filename = ?, language = ?, code = ?
		 WHERE id = ?`,
		snippet.Filename,
		snippet.Language,
		snippet.Code,
		snippet.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating snippet %s: %w", snippet.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", snippet.ID)
	}

	return nil
}

// Delete removes a snippet by its ID.
func (r *SnippetRepo) Delete(ctx context.Context, id string) error {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM code_snippets WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

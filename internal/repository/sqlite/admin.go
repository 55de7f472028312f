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

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` assigns a typed nil to an interface variable; if *Y
// doesn't implement X the compiler errors right here instead of at some
// distant call site. Standard practice for every interface implementation.
var _ repository.AdminRepository = (*AdminRepo)(nil)

// AdminRepo implements repository.AdminRepository over the shared pool.
type AdminRepo struct {
	conn *sql.DB
}

// Create inserts a new admin account.
//
// DUPLICATE DETECTION:
// The uniqueness check is one combined query over username OR email, so the
// resulting error cannot say which of the two collided — that ambiguity is
// part of the signup contract (it avoids confirming which usernames or
// emails exist). The check and the insert run inside one transaction; the
// UNIQUE constraints on both columns are the backstop for the race where
// two signups with the same identity land simultaneously.
func (r *AdminRepo) Create(ctx context.Context, admin *model.Admin) error {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning admin insert: %w", err)
	}
	// Rollback after a successful Commit is a no-op, so the deferred call
	// guarantees release on every exit path without extra bookkeeping.
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admins WHERE username = ? OR email = ?`,
		admin.Username, admin.Email,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("sqlite: checking admin identity: %w", err)
	}
	if count > 0 {
		return apperror.DuplicateIdentity()
	}

	admin.ID = xid.New().String()
	admin.CreatedAt = time.Now()
	if admin.Role == "" {
		admin.Role = "admin"
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO admins (id, username, email, hashed_password, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		admin.ID,
		admin.Username,
		admin.Email,
		admin.HashedPassword,
		admin.Role,
		admin.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting admin %q: %w", admin.Username, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing admin insert: %w", err)
	}

	return nil
}

// FindByUsername returns the admin with the given username, or
// apperror.NotFound if no such account exists.
func (r *AdminRepo) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return r.findAdmin(ctx, `username = ?`, username)
}

// FindByID returns the admin with the given internal ID, or
// apperror.NotFound. Used by the auth middleware to resolve token
// principals on every admin request.
func (r *AdminRepo) FindByID(ctx context.Context, id string) (*model.Admin, error) {
	return r.findAdmin(ctx, `id = ?`, id)
}

// findAdmin runs the shared single-row lookup. The where clause is a
// constant chosen by the callers above, never user input.
func (r *AdminRepo) findAdmin(ctx context.Context, where string, arg string) (*model.Admin, error) {
	var a model.Admin

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, username, email, hashed_password, role, created_at
		 FROM admins WHERE `+where,
		arg,
	).Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.HashedPassword,
		&a.Role,
		&a.CreatedAt,
	)
	if err != nil {
		// sql.ErrNoRows is a sentinel, not a real failure — translate it
		// into the domain's NotFound so callers can classify it.
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("admin", arg)
		}
		return nil, fmt.Errorf("sqlite: getting admin %s: %w", arg, err)
	}

	return &a, nil
}

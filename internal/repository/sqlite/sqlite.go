// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
//
// SCHEMA MANAGEMENT:
// Migrations are SQL files embedded into the binary (embed.FS) and applied
// with goose at startup. goose records applied versions in its own table, so
// startup is idempotent — running the same binary against the same database
// twice applies nothing the second time. The category seed follows the same
// rule: INSERT only the rows that are missing.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rs/xid"

	"github.com/sakif/foundry/internal/model"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init(). We never reference the package directly.
	_ "modernc.org/sqlite"
)

//go:embed migrations
var embedMigrations embed.FS

// DB wraps a sql.DB connection pool and exposes one repository per
// aggregate. The repositories share the same pool — it is one database
// underneath — but live on separate types so each can carry the full CRUD
// method set without name collisions.
type DB struct {
	conn *sql.DB

	Admins     *AdminRepo
	Categories *CategoryRepo
	Components *ComponentRepo
	Snippets   *SnippetRepo
}

// New opens (or creates) the SQLite database at dbPath, applies pending
// migrations, and seeds the category rows.
//
// dbPath examples:
//   - "data/foundry.db" → persistent file database
//   - ":memory:"        → in-memory database (tests; lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory SQLite database exists per connection. database/sql is a
	// POOL of connections, so with more than one open connection each would
	// see its own empty database. Cap the pool at one for :memory:.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where many requests hit the DB at once.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The schema relies on them
	// twice: components must reference a real category, and deleting a
	// component must cascade to its snippets.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	db.Admins = &AdminRepo{conn: conn}
	db.Categories = &CategoryRepo{conn: conn}
	db.Components = &ComponentRepo{conn: conn}
	db.Snippets = &SnippetRepo{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	if err := db.seedCategories(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: seeding categories: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always pair New with a
// deferred Close so the WAL is flushed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate applies all pending goose migrations from the embedded SQL files.
func (db *DB) migrate() error {
	goose.SetBaseFS(embedMigrations)

	// goose only needs a *sql.DB, so the "sqlite3" dialect works fine with
	// the modernc driver.
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.conn, "migrations"); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	return nil
}

// seedCategories inserts any of the four category rows that are missing.
//
// Seeding used to be easy to get wrong as a lazy check on the component
// create path; doing it once at startup keeps the hot path clean and makes
// the invariant simple: after New returns, all four categories exist.
// Row IDs are generated here (xid) rather than in the migration SQL, which
// is why this isn't part of the migration itself.
func (db *DB) seedCategories(ctx context.Context) error {
	for _, key := range model.CategoryKeys {
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO categories (id, key)
			 SELECT ?, ?
			 WHERE NOT EXISTS (SELECT 1 FROM categories WHERE key = ?)`,
			xid.New().String(), string(key), string(key),
		)
		if err != nil {
			return fmt.Errorf("seeding category %q: %w", key, err)
		}
	}
	return nil
}

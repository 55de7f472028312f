// Package repository declares the storage interfaces the service layer
// programs against.
//
// The concrete implementation lives in repository/sqlite, but nothing above
// this package knows that — services receive these interfaces, tests pass
// in-memory fakes, and swapping SQLite for Postgres would be a one-line
// change in the wiring.
package repository

import (
	"context"

	"github.com/sakif/foundry/internal/model"
)

// ListOptions controls offset/limit pagination on list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// AdminRepository persists administrator accounts.
//
// Deliberately narrow: accounts are created once at signup and only ever
// read afterwards. No update or delete is exposed anywhere.
type AdminRepository interface {
	// Create inserts a new admin. Returns apperror.DuplicateIdentity if the
	// username OR the email is already taken (checked as one combined
	// lookup — the error does not distinguish which field collided).
	Create(ctx context.Context, admin *model.Admin) error
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	FindByID(ctx context.Context, id string) (*model.Admin, error)
}

// CategoryRepository reads the fixed category set. Categories are seeded at
// startup and never written through the API, so there are no mutators.
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	// FindByKey returns apperror.NotFound if no row exists for the key.
	FindByKey(ctx context.Context, key model.CategoryKey) (*model.Category, error)
}

// ComponentRepository persists catalog components.
// Read methods fill model.Component.Category (the owning category's key)
// via a JOIN; list methods return rows in insertion order.
type ComponentRepository interface {
	Create(ctx context.Context, component *model.Component) error
	GetByID(ctx context.Context, id string) (*model.Component, error)
	List(ctx context.Context, opts ListOptions) ([]model.Component, error)
	ListByCategory(ctx context.Context, categoryID string) ([]model.Component, error)
	Update(ctx context.Context, component *model.Component) error
	// Delete removes the component and, through the schema's cascade,
	// every snippet it owns.
	Delete(ctx context.Context, id string) error
}

// SnippetRepository persists code snippets under their owning component.
type SnippetRepository interface {
	// Create inserts a snippet under component snippet.ComponentID,
	// returning apperror.NotFound if that component does not exist.
	Create(ctx context.Context, snippet *model.CodeSnippet) error
	GetByID(ctx context.Context, id string) (*model.CodeSnippet, error)
	ListByComponent(ctx context.Context, componentID string) ([]model.CodeSnippet, error)
	Update(ctx context.Context, snippet *model.CodeSnippet) error
	Delete(ctx context.Context, id string) error
}

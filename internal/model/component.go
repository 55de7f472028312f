package model

import "time"

// Component is a reusable building block in the catalog: a titled,
// categorised description of a pattern with one or more code snippets
// attached.
//
// OWNERSHIP:
// A component exclusively owns its snippets. Deleting a component cascades
// to every snippet that references it (enforced in the database schema with
// ON DELETE CASCADE) — a snippet can never outlive its component.
//
// The Category field is the owning category's key, filled in by the
// repository via a JOIN when the component is read. It is not a column on
// the components table itself (the table stores category_id).
type Component struct {
	ID         string      `json:"id"        db:"id"`
	Title      string      `json:"title"     db:"title"`
	UseCase    string      `json:"useCase"   db:"use_case"`
	CategoryID string      `json:"-"         db:"category_id"`
	Category   CategoryKey `json:"-"`
	CreatedAt  time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time   `json:"updatedAt" db:"updated_at"`

	// Snippets is populated only on detail reads (GetByID); list queries
	// leave it nil to avoid N+1 fetches.
	Snippets []CodeSnippet `json:"snippets,omitempty"`
}

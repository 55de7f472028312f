package model

import "strings"

// CategoryKey is the stable, lowercase identifier for a catalog category.
//
// CLOSED ENUM PATTERN IN GO:
// Go has no enum keyword. The idiomatic substitute is a named string (or int)
// type plus a fixed set of exported constants. The type gives us a place to
// hang methods (Label, Valid) and stops arbitrary strings from being passed
// where a category is expected — callers must go through ParseCategoryKey.
//
// The KEY is what travels on the wire for writes ("frontend") and what is
// stored in the categories table. The LABEL ("Frontend", "DevOps & Cloud")
// is presentation text returned by read endpoints. Keeping them separate
// means the display text can change without breaking stored data or clients.
type CategoryKey string

const (
	CategoryFrontend CategoryKey = "frontend"
	CategoryBackend  CategoryKey = "backend"
	CategoryDatabase CategoryKey = "database"
	CategoryDevOps   CategoryKey = "devops"
)

// categoryLabels maps each key to its human-readable display name.
// This is the single source of truth for presentation text.
var categoryLabels = map[CategoryKey]string{
	CategoryFrontend: "Frontend",
	CategoryBackend:  "Backend",
	CategoryDatabase: "Database",
	CategoryDevOps:   "DevOps & Cloud",
}

// CategoryKeys lists every key in a fixed order. Used for seeding and for
// deterministic iteration (map iteration order is random in Go).
var CategoryKeys = []CategoryKey{
	CategoryFrontend,
	CategoryBackend,
	CategoryDatabase,
	CategoryDevOps,
}

// ParseCategoryKey maps a client-supplied string to a CategoryKey.
// Matching is case-insensitive ("Frontend" and "FRONTEND" both resolve).
// The second return value reports whether the string named a real category.
func ParseCategoryKey(s string) (CategoryKey, bool) {
	k := CategoryKey(strings.ToLower(strings.TrimSpace(s)))
	_, ok := categoryLabels[k]
	return k, ok
}

// Valid reports whether the key is one of the four known categories.
func (k CategoryKey) Valid() bool {
	_, ok := categoryLabels[k]
	return ok
}

// Label returns the display name for the key ("devops" → "DevOps & Cloud").
// Unknown keys return the empty string.
func (k CategoryKey) Label() string {
	return categoryLabels[k]
}

// Category is a persisted category row. Exactly four exist, one per
// CategoryKey; they are seeded at startup and never deleted or renamed.
type Category struct {
	ID  string      `json:"id"  db:"id"`
	Key CategoryKey `json:"key" db:"key"`
}

package model

import "time"

// CodeSnippet is a named piece of code attached to a component.
//
// NOTE ON TIMESTAMPS:
// Unlike Component, CodeSnippet records only CreatedAt. Updates mutate the
// fields in place without tracking modification time — the schema simply has
// no updated_at column for snippets. Observable behaviour: a snippet edited
// yesterday looks identical to one untouched since creation.
type CodeSnippet struct {
	ID          string    `json:"id"        db:"id"`
	Filename    string    `json:"filename"  db:"filename"`
	Language    string    `json:"language"  db:"language"`
	Code        string    `json:"code"      db:"code"`
	ComponentID string    `json:"-"         db:"component_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

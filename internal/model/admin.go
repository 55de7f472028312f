// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Admin represents an administrator account.
//
// Admins are created exclusively through the signup endpoint and are never
// updated or deleted afterwards — there is no profile-edit or account-removal
// operation anywhere in the API. Both username and email carry UNIQUE
// constraints in the database.
//
// WHY `json:"-"` ON HashedPassword?
// The json tag "-" tells encoding/json to NEVER serialize this field.
// Even if a handler accidentally encodes a full Admin, the bcrypt hash
// cannot leak into a response body. Defence at the type level beats
// remembering to strip the field in every handler.
type Admin struct {
	ID             string    `json:"id"        db:"id"`
	Username       string    `json:"username"  db:"username"`
	Email          string    `json:"email"     db:"email"`
	HashedPassword string    `json:"-"         db:"hashed_password"`
	Role           string    `json:"role"      db:"role"` // always "admin" today
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// Package entity defines the domain entities for the users feature.
package entity

import "time"

// User represents a registered account.
type User struct {
	// ID is a UUID assigned on creation.
	ID string

	// Name is the display name, trimmed.
	Name string

	// Email is lower-cased and unique across all users.
	Email string

	// Password is the bcrypt hash. Plaintext is never stored.
	Password string

	// Age is zero when not provided.
	Age int

	// HasAvatar reports whether an avatar image is stored for the user.
	HasAvatar bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch carries the whitelisted profile fields of an update. Nil fields are left unchanged.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.Age == nil
}

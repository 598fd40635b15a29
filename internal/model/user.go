// Package model defines the data structures used throughout the application.
package model

import "time"

// Role is a closed enumeration of account roles.
//
// The role decides which side of the board a user sits on: job seekers
// browse and apply, employers post and review. It is embedded in the JWT at
// login time, so a role change only takes effect once a new token is issued.
type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
)

// Valid reports whether r is one of the known roles.
// Use this at every boundary that accepts a role from the outside
// (signup body, Google login body) — never trust a raw string.
func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleEmployer
}

// Provider identifies how an account authenticates.
type Provider string

const (
	ProviderLocal  Provider = "local"  // email + bcrypt password
	ProviderGoogle Provider = "google" // Google ID token, no password stored
)

// User represents a registered account.
//
// Exactly one of PasswordHash / GoogleID is expected to be set for a
// consistent record, but a local account that later signs in with Google
// gets its GoogleID linked and ends up with both. That is tolerated.
//
// PasswordHash and GoogleID are empty strings rather than pointers — the
// zero value means "absent" and is safe to compare against.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"` // unique across all accounts
	PasswordHash string    `json:"-"`     // never serialized
	GoogleID     string    `json:"-"`     // Google's stable subject ID
	Provider     Provider  `json:"provider"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

package domain

import "time"

// Role is a flat role tag on a user. There is no hierarchy: admins may act on
// everything, ordinary users only on what they own.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           string
	Email        string // stored normalized (trimmed, lowercased)
	PasswordHash string // bcrypt encoded, stripped before leaving the service layer
	Fullname     string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // soft delete marker (nullable)
}

// Sanitized returns a copy of the user with the password hash removed.
// Every user record that crosses a service boundary goes through this.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// Principal derives the request-scoped identity from a user record.
func (u User) Principal() Principal {
	return Principal{
		ID:       u.ID,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role governs what an authenticated user may do.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is a persisted account. PasswordHash never leaves the service layer.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilter selects a single user. Lookup precedence is ID, then Name, then Email.
type UserFilter struct {
	ID    *uuid.UUID
	Name  *string
	Email *string
}

// ByID builds a filter on the user identifier.
func ByID(id uuid.UUID) UserFilter {
	return UserFilter{ID: &id}
}

// ByName builds a filter on the user name.
func ByName(name string) UserFilter {
	return UserFilter{Name: &name}
}

// ByEmail builds a filter on the email address.
func ByEmail(email string) UserFilter {
	return UserFilter{Email: &email}
}

// Empty reports whether no criterion is set.
func (f UserFilter) Empty() bool {
	return f.ID == nil && f.Name == nil && f.Email == nil
}

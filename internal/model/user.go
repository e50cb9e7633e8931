package model

import "time"

// User statuses and roles as stored in the `users` table enums.
const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"

	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// UserStatuses lists every valid users.status value.
var UserStatuses = []string{UserStatusActive, UserStatusInactive}

// UserRoles lists every valid users.role value.
var UserRoles = []string{RoleUser, RoleAdmin}

// User mirrors the `users` table. PasswordHash is tagged "-" so it can
// never leak through JSON serialization; only the login flow reads it.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"status"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

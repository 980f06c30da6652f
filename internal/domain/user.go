package domain

import "time"

// UserRole determines what a caller may do.
type UserRole string

const (
	RoleEndUser UserRole = "END_USER"
	RoleITAgent UserRole = "IT_AGENT"
	RoleAdmin   UserRole = "ADMIN"
)

// User is the domain model for anyone who can authenticate.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

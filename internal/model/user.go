package model

import "time"

// Role determines which protected routes an account may reach.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID            int64
	Email         string
	PasswordHash  string // bcrypt output, salt embedded
	FirstName     string
	LastName      string
	Phone         string
	Notifications bool
	Role          Role
	RegisteredAt  time.Time
	CurrentLogin  *time.Time
	LastLogin     *time.Time
}

package domain

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleCoach   Role = "coach"
)

// Valid returns true when the role is a supported value.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleCoach:
		return true
	default:
		return false
	}
}

// Billable reports whether users with this role receive monthly invoices.
func (r Role) Billable() bool {
	return r == RoleStudent || r == RoleParent
}

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

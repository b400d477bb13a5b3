package models

// Role is the fixed role enumeration of the booking backend.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

// User is the auth-relevant slice of a user record. The record itself is
// owned by the user store; this core only reads it.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Active       bool   `json:"active"`
	PasswordHash string `json:"-"`
}

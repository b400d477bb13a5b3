package models

// Keys under which the bearer middleware stores decoded claims in the echo
// context.
const (
	UserIDContextKey = "userID"
	RoleContextKey   = "role"
)

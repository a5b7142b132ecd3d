package models

import "time"

// User is an identity record. Email is the login key; PasswordHash is opaque
// to everything except the authentication service and never leaves the server.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

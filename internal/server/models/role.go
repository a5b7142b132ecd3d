// Package models contains server-side domain entities persisted by the
// repositories.
package models

import "fmt"

// Role is a user authority drawn from a closed set.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole validates a role string against the closed enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// RolesFromStrings converts a string slice into roles, failing on any value
// outside the enum.
func RolesFromStrings(ss []string) ([]Role, error) {
	roles := make([]Role, 0, len(ss))
	for _, s := range ss {
		r, err := ParseRole(s)
		if err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	return roles, nil
}

// RolesToStrings converts roles to their string representation.
func RolesToStrings(roles []Role) []string {
	ss := make([]string, 0, len(roles))
	for _, r := range roles {
		ss = append(ss, string(r))
	}
	return ss
}

package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of identity roles.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleSeller     Role = "SELLER"
	RoleUser       Role = "USER"
)

// DefaultRole is assigned on signup.
const DefaultRole = RoleUser

var allRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleSeller, RoleUser}

// AllRoles returns every known role.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole converts a case-insensitive string to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("invalid role: %q", s)
	}
	return r, nil
}

// RoleSet is a set of permitted roles. The empty set permits any role.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports membership.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Permits is true when the set is empty or contains r.
func (s RoleSet) Permits(r Role) bool {
	return len(s) == 0 || s.Contains(r)
}

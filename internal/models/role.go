package models

import "fmt"

type Role string

const (
	RoleUser       Role = "user"
	RoleAuthor     Role = "author"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// roleGrants maps a required role to the set of roles that satisfy it.
// Super admin is handled separately in Satisfies and never appears here.
// The table is spelled out on purpose: authorization decisions must not
// depend on the declaration order of the constants above.
var roleGrants = map[Role]map[Role]bool{
	RoleUser:       {RoleUser: true, RoleAuthor: true, RoleAdmin: true},
	RoleAuthor:     {RoleAuthor: true, RoleAdmin: true},
	RoleAdmin:      {RoleAdmin: true},
	RoleSuperAdmin: {},
}

// Satisfies reports whether a user holding role r passes a check that
// requires the given role. Super admins pass every check.
func (r Role) Satisfies(required Role) bool {
	if r == RoleSuperAdmin {
		return true
	}
	return roleGrants[required][r]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAuthor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role: %q", s)
	}
	return r, nil
}

package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of authorization levels an account can hold.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RolePropertyManager Role = "property_manager"
	RoleBoardMember     Role = "board_member"
	RoleCommunityAdmin  Role = "community_admin"
	RoleResident        Role = "resident"
	RoleTenant          Role = "tenant"
)

// Roles lists every valid role, highest privilege first.
var Roles = []Role{
	RoleSuperAdmin,
	RolePropertyManager,
	RoleBoardMember,
	RoleCommunityAdmin,
	RoleResident,
	RoleTenant,
}

// ElevatableRoles are the roles an approval may assign. Never super_admin.
var ElevatableRoles = []Role{
	RolePropertyManager,
	RoleBoardMember,
	RoleCommunityAdmin,
}

// ParseRole validates a raw string against the role set.
func ParseRole(value string) (Role, error) {
	candidate := Role(strings.ToLower(strings.TrimSpace(value)))
	for _, role := range Roles {
		if candidate == role {
			return role, nil
		}
	}
	return "", fmt.Errorf("%w: %q (allowed: %s)", ErrInvalidRole, value, roleList(Roles))
}

// Elevatable reports whether the role may be granted through approval.
func (r Role) Elevatable() bool {
	for _, role := range ElevatableRoles {
		if r == role {
			return true
		}
	}
	return false
}

// In reports whether the role belongs to the given set.
func (r Role) In(roles ...Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

func roleList(roles []Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return strings.Join(names, ", ")
}

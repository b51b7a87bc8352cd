package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of administrative roles a user can hold.
type Role string

const (
	RoleSuperAdmin      Role = "SUPERADMIN"
	RoleCollegeAdmin    Role = "COLLEGE_ADMIN"
	RoleDepartmentAdmin Role = "DEPARTMENT_ADMIN"
	RoleGuest           Role = "GUEST"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	case RoleCollegeAdmin:
		return RoleCollegeAdmin, nil
	case RoleDepartmentAdmin:
		return RoleDepartmentAdmin, nil
	case RoleGuest:
		return RoleGuest, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// Valid reports whether the role is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleCollegeAdmin, RoleDepartmentAdmin, RoleGuest:
		return true
	}
	return false
}

// IsStaff reports whether users holding the role receive staff-equivalent
// access flags at creation time.
func (r Role) IsStaff() bool {
	return r == RoleSuperAdmin || r == RoleCollegeAdmin
}

package domain

import "time"

// User mirrors the persisted representation in the users table. CollegeID and
// DepartmentID are administrative assignments, not physical membership; either
// may be unset.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CollegeID    *string
	DepartmentID *string
	IsStaff      bool
	IsActive     bool
	RegisteredAt time.Time
	UpdatedAt    time.Time
}

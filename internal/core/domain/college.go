package domain

import "time"

// College is the top of the administrative hierarchy. Code is unique across
// all colleges.
type College struct {
	ID        string
	Code      string
	Name      string
	AdminID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Department belongs to exactly one college; CollegeID may be nil during
// transitional states. (CollegeID, Code) is unique.
type Department struct {
	ID        string
	CollegeID *string
	Code      string
	Name      string
	AdminID   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

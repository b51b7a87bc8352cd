package domain

import "time"

// PartnershipStatus enumerates the lifecycle states of a partnership.
type PartnershipStatus string

const (
	PartnershipActive   PartnershipStatus = "active"
	PartnershipInactive PartnershipStatus = "inactive"
)

// Partnership is an inter-department linkage owned by exactly one department.
type Partnership struct {
	ID            string
	DepartmentID  string
	Title         string
	Description   string
	Status        PartnershipStatus
	ContactPerson *string
	ContactEmail  *string
	ContactPhone  *string
	DateStarted   *time.Time
	DateEnded     *time.Time
	CreatedBy     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GrowthPoint is one month bucket in the partnership growth series. Month is
// formatted as "YYYY-MM".
type GrowthPoint struct {
	Month string
	Count int
}

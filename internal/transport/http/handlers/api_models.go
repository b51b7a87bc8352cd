package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports process liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports the readiness of each backing dependency.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// UserModel is the API representation of a user. Password material is never
// serialized.
type UserModel struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	College      *string   `json:"college"`
	Department   *string   `json:"department"`
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newUserModel(user domain.User) UserModel {
	return UserModel{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         string(user.Role),
		College:      user.CollegeID,
		Department:   user.DepartmentID,
		IsStaff:      user.IsStaff,
		IsActive:     user.IsActive,
		RegisteredAt: user.RegisteredAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func newUserModels(users []domain.User) []UserModel {
	out := make([]UserModel, 0, len(users))
	for _, user := range users {
		out = append(out, newUserModel(user))
	}
	return out
}

// CollegeModel is the API representation of a college.
type CollegeModel struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Admin     *string   `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newCollegeModel(college domain.College) CollegeModel {
	return CollegeModel{
		ID:        college.ID,
		Code:      college.Code,
		Name:      college.Name,
		Admin:     college.AdminID,
		CreatedAt: college.CreatedAt,
		UpdatedAt: college.UpdatedAt,
	}
}

func newCollegeModels(colleges []domain.College) []CollegeModel {
	out := make([]CollegeModel, 0, len(colleges))
	for _, college := range colleges {
		out = append(out, newCollegeModel(college))
	}
	return out
}

// DepartmentModel is the API representation of a department.
type DepartmentModel struct {
	ID        string    `json:"id"`
	College   *string   `json:"college"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Admin     *string   `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newDepartmentModel(department domain.Department) DepartmentModel {
	return DepartmentModel{
		ID:        department.ID,
		College:   department.CollegeID,
		Code:      department.Code,
		Name:      department.Name,
		Admin:     department.AdminID,
		CreatedAt: department.CreatedAt,
		UpdatedAt: department.UpdatedAt,
	}
}

func newDepartmentModels(departments []domain.Department) []DepartmentModel {
	out := make([]DepartmentModel, 0, len(departments))
	for _, department := range departments {
		out = append(out, newDepartmentModel(department))
	}
	return out
}

// PartnershipModel is the API representation of a partnership. Dates are
// serialized as YYYY-MM-DD.
type PartnershipModel struct {
	ID            string    `json:"id"`
	Department    string    `json:"department"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	ContactPerson *string   `json:"contact_person"`
	ContactEmail  *string   `json:"contact_email"`
	ContactPhone  *string   `json:"contact_phone"`
	DateStarted   *string   `json:"date_started"`
	DateEnded     *string   `json:"date_ended"`
	CreatedBy     *string   `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const apiDateLayout = "2006-01-02"

func formatAPIDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(apiDateLayout)
	return &formatted
}

func parseAPIDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(apiDateLayout, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", *raw)
	}
	return &parsed, nil
}

func newPartnershipModel(partnership domain.Partnership) PartnershipModel {
	return PartnershipModel{
		ID:            partnership.ID,
		Department:    partnership.DepartmentID,
		Title:         partnership.Title,
		Description:   partnership.Description,
		Status:        string(partnership.Status),
		ContactPerson: partnership.ContactPerson,
		ContactEmail:  partnership.ContactEmail,
		ContactPhone:  partnership.ContactPhone,
		DateStarted:   formatAPIDate(partnership.DateStarted),
		DateEnded:     formatAPIDate(partnership.DateEnded),
		CreatedBy:     partnership.CreatedBy,
		CreatedAt:     partnership.CreatedAt,
		UpdatedAt:     partnership.UpdatedAt,
	}
}

func newPartnershipModels(partnerships []domain.Partnership) []PartnershipModel {
	out := make([]PartnershipModel, 0, len(partnerships))
	for _, partnership := range partnerships {
		out = append(out, newPartnershipModel(partnership))
	}
	return out
}

// GrowthPointModel is one month bucket in the growth series.
type GrowthPointModel struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

func newGrowthPointModels(points []domain.GrowthPoint) []GrowthPointModel {
	out := make([]GrowthPointModel, 0, len(points))
	for _, point := range points {
		out = append(out, GrowthPointModel{Month: point.Month, Count: point.Count})
	}
	return out
}

// AuthLoginRequest defines the payload for the login endpoint.
type AuthLoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// AuthLoginResponse describes the response returned for a successful login.
type AuthLoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	User         UserModel `json:"user"`
}

// TokenRefreshRequest represents the payload to refresh an access token.
type TokenRefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenRefreshResponse contains tokens issued by the refresh endpoint.
type TokenRefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// GuestRegistrationRequest defines the self-registration payload. Any role
// supplied by the client is ignored.
type GuestRegistrationRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// GuestRegistrationResponse contains the created guest account.
type GuestRegistrationResponse struct {
	User    UserModel `json:"user"`
	Message string    `json:"message"`
}

// CreateUserRequest defines the administrative user-creation payload.
type CreateUserRequest struct {
	Username   string  `json:"username" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password"`
	Role       string  `json:"role" binding:"required"`
	College    *string `json:"college"`
	Department *string `json:"department"`
}

// RefField distinguishes an absent reference field from an explicit null.
// Absent means "leave unchanged"; null means "clear the assignment".
type RefField struct {
	raw json.RawMessage
}

// UnmarshalJSON records the raw value; it is only invoked when the field is
// present in the payload.
func (f *RefField) UnmarshalJSON(data []byte) error {
	f.raw = append(f.raw[:0], data...)
	return nil
}

// Provided reports whether the field appeared in the payload.
func (f *RefField) Provided() bool {
	return len(f.raw) > 0
}

// Value returns the referenced id, or nil for an explicit null.
func (f *RefField) Value() (*string, error) {
	if !f.Provided() || bytes.Equal(f.raw, []byte("null")) {
		return nil, nil
	}
	var id string
	if err := json.Unmarshal(f.raw, &id); err != nil {
		return nil, fmt.Errorf("expected a string id or null")
	}
	return &id, nil
}

// UpdateUserRequest defines a partial user update. Omitted fields are left
// unchanged; college and department accept explicit null to clear.
type UpdateUserRequest struct {
	Username   *string  `json:"username"`
	Email      *string  `json:"email" binding:"omitempty,email"`
	Password   *string  `json:"password"`
	Role       *string  `json:"role"`
	College    RefField `json:"college"`
	Department RefField `json:"department"`
}

// CollegeRequest is the payload for college create and update.
type CollegeRequest struct {
	Code  string  `json:"code" binding:"required"`
	Name  string  `json:"name" binding:"required"`
	Admin *string `json:"admin"`
}

// DepartmentRequest is the payload for department create and update.
type DepartmentRequest struct {
	College *string `json:"college"`
	Code    string  `json:"code" binding:"required"`
	Name    string  `json:"name" binding:"required"`
	Admin   *string `json:"admin"`
}

// PartnershipRequest is the payload for partnership create and update. All
// fields are optional so the same shape serves partial updates; create
// validates the required subset server-side.
type PartnershipRequest struct {
	Department    *string `json:"department"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	ContactPerson *string `json:"contact_person"`
	ContactEmail  *string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone  *string `json:"contact_phone"`
	DateStarted   *string `json:"date_started"`
	DateEnded     *string `json:"date_ended"`
}

// GrowthResponse wraps the monthly partnership growth series.
type GrowthResponse struct {
	Growth []GrowthPointModel `json:"growth"`
}

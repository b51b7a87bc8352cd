package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/joshwanee/hcdc-partnership/internal/authz"
	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

var (
	// ErrDepartmentNotFound indicates the referenced department does not exist.
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrDepartmentCodeTaken indicates the department code is already in use within the college.
	ErrDepartmentCodeTaken = errors.New("department code already taken")
)

// DepartmentInput captures a department create or update payload.
type DepartmentInput struct {
	CollegeID *string
	Code      string
	Name      string
	AdminID   *string
}

// DepartmentService handles department lifecycle operations.
type DepartmentService struct {
	departments  port.DepartmentRepository
	colleges     port.CollegeRepository
	partnerships port.PartnershipRepository
	resolver     *authz.Resolver
	engine       *authz.Engine
}

// NewDepartmentService constructs DepartmentService.
func NewDepartmentService(
	departments port.DepartmentRepository,
	colleges port.CollegeRepository,
	partnerships port.PartnershipRepository,
	resolver *authz.Resolver,
	engine *authz.Engine,
) *DepartmentService {
	return &DepartmentService{
		departments:  departments,
		colleges:     colleges,
		partnerships: partnerships,
		resolver:     resolver,
		engine:       engine,
	}
}

// List returns the departments inside the caller's scope. An explicit college
// filter is intersected with the role scope; when the two name different
// colleges the result is empty.
func (s *DepartmentService) List(ctx context.Context, id *authz.Identity, collegeID *string) ([]domain.Department, error) {
	scope := s.resolver.Departments(id)
	if scope.None {
		return []domain.Department{}, nil
	}

	filter := port.DepartmentFilter{
		ID:        scope.DepartmentID,
		CollegeID: scope.CollegeID,
	}

	if collegeID != nil {
		if filter.CollegeID != nil && *filter.CollegeID != *collegeID {
			return []domain.Department{}, nil
		}
		filter.CollegeID = collegeID
	}

	departments, err := s.departments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

// Get retrieves a single department.
func (s *DepartmentService) Get(ctx context.Context, id *authz.Identity, departmentID string) (*domain.Department, error) {
	department, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("lookup department: %w", err)
	}

	if !s.engine.CanAccess(id, authz.ActionRead, departmentObject(department)) {
		return nil, ErrPermissionDenied
	}
	return department, nil
}

// Create persists a new department.
func (s *DepartmentService) Create(ctx context.Context, id *authz.Identity, input DepartmentInput) (domain.Department, error) {
	if !s.engine.CanAttempt(id, authz.ActionCreate) {
		return domain.Department{}, ErrPermissionDenied
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		return domain.Department{}, ErrCodeRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Department{}, ErrNameRequired
	}

	if input.CollegeID != nil {
		if _, err := s.colleges.GetByID(ctx, *input.CollegeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.Department{}, ErrCollegeNotFound
			}
			return domain.Department{}, fmt.Errorf("lookup college: %w", err)
		}
	}

	now := time.Now().UTC()
	department := domain.Department{
		ID:        uuid.NewString(),
		CollegeID: input.CollegeID,
		Code:      code,
		Name:      name,
		AdminID:   input.AdminID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.departments.Create(ctx, department); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Department{}, ErrDepartmentCodeTaken
		}
		return domain.Department{}, fmt.Errorf("create department: %w", err)
	}
	return department, nil
}

// Update modifies an existing department.
func (s *DepartmentService) Update(ctx context.Context, id *authz.Identity, departmentID string, input DepartmentInput) (*domain.Department, error) {
	department, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("lookup department: %w", err)
	}

	if !s.engine.CanAccess(id, authz.ActionUpdate, departmentObject(department)) {
		return nil, ErrPermissionDenied
	}

	if input.CollegeID != nil {
		if _, err := s.colleges.GetByID(ctx, *input.CollegeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrCollegeNotFound
			}
			return nil, fmt.Errorf("lookup college: %w", err)
		}
		department.CollegeID = input.CollegeID
	}
	if code := strings.TrimSpace(input.Code); code != "" {
		department.Code = code
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		department.Name = name
	}
	if input.AdminID != nil {
		department.AdminID = input.AdminID
	}
	department.UpdatedAt = time.Now().UTC()

	if err := s.departments.Update(ctx, *department); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDepartmentCodeTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("update department: %w", err)
	}
	return department, nil
}

// Delete removes a department.
func (s *DepartmentService) Delete(ctx context.Context, id *authz.Identity, departmentID string) error {
	department, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("lookup department: %w", err)
	}

	if !s.engine.CanAccess(id, authz.ActionDelete, departmentObject(department)) {
		return ErrPermissionDenied
	}

	if err := s.departments.Delete(ctx, departmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}

// Partnerships lists the partnerships owned by a department.
func (s *DepartmentService) Partnerships(ctx context.Context, id *authz.Identity, departmentID string) ([]domain.Partnership, error) {
	department, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("lookup department: %w", err)
	}

	if !s.engine.CanAccess(id, authz.ActionRead, departmentObject(department)) {
		return nil, ErrPermissionDenied
	}

	partnerships, err := s.partnerships.List(ctx, port.PartnershipFilter{DepartmentID: &department.ID})
	if err != nil {
		return nil, fmt.Errorf("list department partnerships: %w", err)
	}
	return partnerships, nil
}

func departmentObject(department *domain.Department) authz.Object {
	return authz.Object{
		Kind:         "department",
		ID:           department.ID,
		CollegeID:    department.CollegeID,
		DepartmentID: &department.ID,
	}
}

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
	// ErrCollegeNotFound indicates the target college does not exist.
	ErrCollegeNotFound = errors.New("college not found")
	// ErrCollegeCodeTaken indicates the college code is already in use.
	ErrCollegeCodeTaken = errors.New("college code already taken")
)

// CollegeInput captures a college create or update payload.
type CollegeInput struct {
	Code    string
	Name    string
	AdminID *string
}

// CollegeService handles college lifecycle operations.
type CollegeService struct {
	colleges    port.CollegeRepository
	departments port.DepartmentRepository
	resolver    *authz.Resolver
	engine      *authz.Engine
}

// NewCollegeService constructs CollegeService.
func NewCollegeService(
	colleges port.CollegeRepository,
	departments port.DepartmentRepository,
	resolver *authz.Resolver,
	engine *authz.Engine,
) *CollegeService {
	return &CollegeService{
		colleges:    colleges,
		departments: departments,
		resolver:    resolver,
		engine:      engine,
	}
}

// List returns the colleges inside the caller's scope.
func (s *CollegeService) List(ctx context.Context, id *authz.Identity) ([]domain.College, error) {
	scope := s.resolver.Colleges(id)
	if scope.None {
		return []domain.College{}, nil
	}

	filter := port.CollegeFilter{}
	if scope.CollegeID != nil {
		filter.ID = scope.CollegeID
	}

	colleges, err := s.colleges.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list colleges: %w", err)
	}
	return colleges, nil
}

// Get retrieves a single college.
func (s *CollegeService) Get(ctx context.Context, id *authz.Identity, collegeID string) (*domain.College, error) {
	college, err := s.colleges.GetByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, fmt.Errorf("lookup college: %w", err)
	}

	if !s.engine.CanAccess(id, authz.ActionRead, collegeObject(college)) {
		return nil, ErrPermissionDenied
	}
	return college, nil
}

// Create persists a new college.
func (s *CollegeService) Create(ctx context.Context, id *authz.Identity, input CollegeInput) (domain.College, error) {
	if !s.engine.CanAttempt(id, authz.ActionCreate) {
		return domain.College{}, ErrPermissionDenied
	}

	code := strings.TrimSpace(input.Code)
	if code == "" {
		return domain.College{}, ErrCodeRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.College{}, ErrNameRequired
	}

	now := time.Now().UTC()
	college := domain.College{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		AdminID:   input.AdminID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.colleges.Create(ctx, college); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.College{}, ErrCollegeCodeTaken
		}
		return domain.College{}, fmt.Errorf("create college: %w", err)
	}
	return college, nil
}

// Update modifies an existing college.
func (s *CollegeService) Update(ctx context.Context, id *authz.Identity, collegeID string, input CollegeInput) (*domain.College, error) {
	college, err := s.colleges.GetByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, fmt.Errorf("lookup college: %w", err)
	}

	if !s.engine.CanAccess(id, authz.ActionUpdate, collegeObject(college)) {
		return nil, ErrPermissionDenied
	}

	if code := strings.TrimSpace(input.Code); code != "" {
		college.Code = code
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		college.Name = name
	}
	if input.AdminID != nil {
		college.AdminID = input.AdminID
	}
	college.UpdatedAt = time.Now().UTC()

	if err := s.colleges.Update(ctx, *college); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCollegeCodeTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, fmt.Errorf("update college: %w", err)
	}
	return college, nil
}

// Delete removes a college.
func (s *CollegeService) Delete(ctx context.Context, id *authz.Identity, collegeID string) error {
	college, err := s.colleges.GetByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCollegeNotFound
		}
		return fmt.Errorf("lookup college: %w", err)
	}

	if !s.engine.CanAccess(id, authz.ActionDelete, collegeObject(college)) {
		return ErrPermissionDenied
	}

	if err := s.colleges.Delete(ctx, collegeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCollegeNotFound
		}
		return fmt.Errorf("delete college: %w", err)
	}
	return nil
}

// Departments lists the departments owned by a college.
func (s *CollegeService) Departments(ctx context.Context, id *authz.Identity, collegeID string) ([]domain.Department, error) {
	college, err := s.colleges.GetByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCollegeNotFound
		}
		return nil, fmt.Errorf("lookup college: %w", err)
	}

	if !s.engine.CanAccess(id, authz.ActionRead, collegeObject(college)) {
		return nil, ErrPermissionDenied
	}

	departments, err := s.departments.List(ctx, port.DepartmentFilter{CollegeID: &college.ID})
	if err != nil {
		return nil, fmt.Errorf("list college departments: %w", err)
	}
	return departments, nil
}

func collegeObject(college *domain.College) authz.Object {
	return authz.Object{
		Kind:      "college",
		ID:        college.ID,
		CollegeID: &college.ID,
	}
}

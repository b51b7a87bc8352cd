package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/joshwanee/hcdc-partnership/internal/authz"
	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

var (
	// ErrPartnershipNotFound indicates the target partnership does not exist.
	ErrPartnershipNotFound = errors.New("partnership not found")
	// ErrInvalidStatus indicates a status outside the active/inactive set.
	ErrInvalidStatus = errors.New("invalid partnership status")
)

const growthMonthLayout = "2006-01"

// PartnershipInput captures a partnership create or update payload.
type PartnershipInput struct {
	DepartmentID  *string
	Title         *string
	Description   *string
	Status        *string
	ContactPerson *string
	ContactEmail  *string
	ContactPhone  *string
	DateStarted   *time.Time
	DateEnded     *time.Time
}

// GrowthFilter narrows the growth aggregation. An explicit CollegeID takes
// precedence over role scoping entirely.
type GrowthFilter struct {
	Year      *int
	Month     *int
	CollegeID *string
}

// PartnershipService handles partnership lifecycle operations and the growth
// aggregation.
type PartnershipService struct {
	partnerships port.PartnershipRepository
	departments  port.DepartmentRepository
	resolver     *authz.Resolver
	engine       *authz.Engine
	events       port.EventPublisher
}

// NewPartnershipService constructs PartnershipService.
func NewPartnershipService(
	partnerships port.PartnershipRepository,
	departments port.DepartmentRepository,
	resolver *authz.Resolver,
	engine *authz.Engine,
	events port.EventPublisher,
) *PartnershipService {
	return &PartnershipService{
		partnerships: partnerships,
		departments:  departments,
		resolver:     resolver,
		engine:       engine,
		events:       events,
	}
}

// List returns the partnerships inside the caller's scope, optionally
// narrowed by an explicit department filter.
func (s *PartnershipService) List(ctx context.Context, id *authz.Identity, departmentID *string) ([]domain.Partnership, error) {
	scope := s.resolver.Partnerships(id)
	if scope.None {
		return []domain.Partnership{}, nil
	}

	filter := port.PartnershipFilter{
		DepartmentID: scope.DepartmentID,
		CollegeID:    scope.CollegeID,
	}

	if departmentID != nil {
		if filter.DepartmentID != nil && *filter.DepartmentID != *departmentID {
			return []domain.Partnership{}, nil
		}
		filter.DepartmentID = departmentID
	}

	partnerships, err := s.partnerships.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list partnerships: %w", err)
	}
	return partnerships, nil
}

// Get retrieves a single partnership.
func (s *PartnershipService) Get(ctx context.Context, id *authz.Identity, partnershipID string) (*domain.Partnership, error) {
	partnership, err := s.partnerships.GetByID(ctx, partnershipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPartnershipNotFound
		}
		return nil, fmt.Errorf("lookup partnership: %w", err)
	}

	obj, err := s.partnershipObject(ctx, partnership)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanAccess(id, authz.ActionRead, obj) {
		return nil, ErrPermissionDenied
	}
	return partnership, nil
}

// Create persists a new partnership. The creator is stamped from the acting
// identity.
func (s *PartnershipService) Create(ctx context.Context, id *authz.Identity, input PartnershipInput) (domain.Partnership, error) {
	if !s.engine.CanAttempt(id, authz.ActionCreate) {
		return domain.Partnership{}, ErrPermissionDenied
	}

	if input.DepartmentID == nil || strings.TrimSpace(*input.DepartmentID) == "" {
		return domain.Partnership{}, ErrDepartmentRequired
	}
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return domain.Partnership{}, ErrTitleRequired
	}

	if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Partnership{}, ErrDepartmentNotFound
		}
		return domain.Partnership{}, fmt.Errorf("lookup department: %w", err)
	}

	status := domain.PartnershipActive
	if input.Status != nil {
		parsed, err := parseStatus(*input.Status)
		if err != nil {
			return domain.Partnership{}, err
		}
		status = parsed
	}

	now := time.Now().UTC()
	partnership := domain.Partnership{
		ID:            uuid.NewString(),
		DepartmentID:  *input.DepartmentID,
		Title:         strings.TrimSpace(*input.Title),
		Status:        status,
		ContactPerson: input.ContactPerson,
		ContactEmail:  input.ContactEmail,
		ContactPhone:  input.ContactPhone,
		DateStarted:   input.DateStarted,
		DateEnded:     input.DateEnded,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Description != nil {
		partnership.Description = strings.TrimSpace(*input.Description)
	}
	if id != nil {
		creator := id.UserID
		partnership.CreatedBy = &creator
	}

	if err := s.partnerships.Create(ctx, partnership); err != nil {
		return domain.Partnership{}, fmt.Errorf("create partnership: %w", err)
	}

	s.publish(ctx, id, "partnership.created", map[string]any{
		"partnership_id": partnership.ID,
		"department_id":  partnership.DepartmentID,
	})
	return partnership, nil
}

// Update applies a partial update to an existing partnership.
func (s *PartnershipService) Update(ctx context.Context, id *authz.Identity, partnershipID string, input PartnershipInput) (*domain.Partnership, error) {
	partnership, err := s.partnerships.GetByID(ctx, partnershipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPartnershipNotFound
		}
		return nil, fmt.Errorf("lookup partnership: %w", err)
	}

	obj, err := s.partnershipObject(ctx, partnership)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanAccess(id, authz.ActionUpdate, obj) {
		return nil, ErrPermissionDenied
	}

	if input.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, fmt.Errorf("lookup department: %w", err)
		}
		partnership.DepartmentID = *input.DepartmentID
	}
	if input.Title != nil {
		partnership.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		partnership.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		status, err := parseStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		partnership.Status = status
	}
	if input.ContactPerson != nil {
		partnership.ContactPerson = input.ContactPerson
	}
	if input.ContactEmail != nil {
		partnership.ContactEmail = input.ContactEmail
	}
	if input.ContactPhone != nil {
		partnership.ContactPhone = input.ContactPhone
	}
	if input.DateStarted != nil {
		partnership.DateStarted = input.DateStarted
	}
	if input.DateEnded != nil {
		partnership.DateEnded = input.DateEnded
	}
	partnership.UpdatedAt = time.Now().UTC()

	if err := s.partnerships.Update(ctx, *partnership); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPartnershipNotFound
		}
		return nil, fmt.Errorf("update partnership: %w", err)
	}

	s.publish(ctx, id, "partnership.updated", map[string]any{"partnership_id": partnership.ID})
	return partnership, nil
}

// Delete removes a partnership.
func (s *PartnershipService) Delete(ctx context.Context, id *authz.Identity, partnershipID string) error {
	partnership, err := s.partnerships.GetByID(ctx, partnershipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPartnershipNotFound
		}
		return fmt.Errorf("lookup partnership: %w", err)
	}

	obj, err := s.partnershipObject(ctx, partnership)
	if err != nil {
		return err
	}
	if !s.engine.CanAccess(id, authz.ActionDelete, obj) {
		return ErrPermissionDenied
	}

	if err := s.partnerships.Delete(ctx, partnershipID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPartnershipNotFound
		}
		return fmt.Errorf("delete partnership: %w", err)
	}

	s.publish(ctx, id, "partnership.deleted", map[string]any{"partnership_id": partnershipID})
	return nil
}

// Growth buckets the partnerships visible under the filter by the calendar
// month of their start date. Rows are restricted in SQL; the month grouping
// happens here so it stays unit-testable.
func (s *PartnershipService) Growth(ctx context.Context, id *authz.Identity, filter GrowthFilter) ([]domain.GrowthPoint, error) {
	repoFilter := port.PartnershipFilter{
		StartedOnly: true,
		Year:        filter.Year,
		Month:       filter.Month,
	}

	if filter.CollegeID != nil {
		repoFilter.CollegeID = filter.CollegeID
	} else {
		scope := s.resolver.Partnerships(id)
		if scope.None {
			return []domain.GrowthPoint{}, nil
		}
		repoFilter.CollegeID = scope.CollegeID
		repoFilter.DepartmentID = scope.DepartmentID
	}

	partnerships, err := s.partnerships.List(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("list partnerships for growth: %w", err)
	}

	return bucketByMonth(partnerships), nil
}

func bucketByMonth(partnerships []domain.Partnership) []domain.GrowthPoint {
	counts := make(map[string]int)
	for _, partnership := range partnerships {
		if partnership.DateStarted == nil {
			continue
		}
		counts[partnership.DateStarted.Format(growthMonthLayout)]++
	}

	months := make([]string, 0, len(counts))
	for month := range counts {
		months = append(months, month)
	}
	sort.Strings(months)

	points := make([]domain.GrowthPoint, 0, len(months))
	for _, month := range months {
		points = append(points, domain.GrowthPoint{Month: month, Count: counts[month]})
	}
	return points
}

func parseStatus(value string) (domain.PartnershipStatus, error) {
	switch domain.PartnershipStatus(strings.ToLower(strings.TrimSpace(value))) {
	case domain.PartnershipActive:
		return domain.PartnershipActive, nil
	case domain.PartnershipInactive:
		return domain.PartnershipInactive, nil
	default:
		return "", ErrInvalidStatus
	}
}

func (s *PartnershipService) partnershipObject(ctx context.Context, partnership *domain.Partnership) (authz.Object, error) {
	obj := authz.Object{
		Kind:         "partnership",
		ID:           partnership.ID,
		DepartmentID: &partnership.DepartmentID,
	}

	department, err := s.departments.GetByID(ctx, partnership.DepartmentID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return authz.Object{}, fmt.Errorf("lookup department: %w", err)
		}
		return obj, nil
	}

	obj.CollegeID = department.CollegeID
	return obj, nil
}

func (s *PartnershipService) publish(ctx context.Context, id *authz.Identity, eventType string, payload map[string]any) {
	if s.events == nil {
		return
	}
	actorID := ""
	if id != nil {
		actorID = id.UserID
	}
	_ = s.events.Publish(ctx, port.Event{Type: eventType, ActorID: actorID, Payload: payload})
}

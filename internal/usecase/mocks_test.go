package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

type userRepoMock struct {
	users      map[string]domain.User
	created    []domain.User
	updated    []domain.User
	deleted    []string
	lastFilter port.UserFilter
	createErr  error
	newHash    string
}

func newUserRepoMock(users ...domain.User) *userRepoMock {
	m := &userRepoMock{users: make(map[string]domain.User)}
	for _, user := range users {
		m.users[user.ID] = user
	}
	return m
}

func (m *userRepoMock) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, user)
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := user
	return &copy, nil
}

func (m *userRepoMock) GetByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == identifier || user.Email == identifier {
			copy := user
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) List(_ context.Context, filter port.UserFilter) ([]domain.User, error) {
	m.lastFilter = filter
	users := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func (m *userRepoMock) Update(_ context.Context, user domain.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.updated = append(m.updated, user)
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	m.users[id] = user
	m.newHash = passwordHash
	return nil
}

func (m *userRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type collegeRepoMock struct {
	colleges   map[string]domain.College
	lastFilter port.CollegeFilter
}

func newCollegeRepoMock(colleges ...domain.College) *collegeRepoMock {
	m := &collegeRepoMock{colleges: make(map[string]domain.College)}
	for _, college := range colleges {
		m.colleges[college.ID] = college
	}
	return m
}

func (m *collegeRepoMock) Create(_ context.Context, college domain.College) error {
	for _, existing := range m.colleges {
		if existing.Code == college.Code {
			return repository.ErrDuplicate
		}
	}
	m.colleges[college.ID] = college
	return nil
}

func (m *collegeRepoMock) GetByID(_ context.Context, id string) (*domain.College, error) {
	college, ok := m.colleges[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := college
	return &copy, nil
}

func (m *collegeRepoMock) GetByCode(_ context.Context, code string) (*domain.College, error) {
	for _, college := range m.colleges {
		if college.Code == code {
			copy := college
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *collegeRepoMock) List(_ context.Context, filter port.CollegeFilter) ([]domain.College, error) {
	m.lastFilter = filter
	colleges := make([]domain.College, 0, len(m.colleges))
	for _, college := range m.colleges {
		if filter.ID != nil && college.ID != *filter.ID {
			continue
		}
		colleges = append(colleges, college)
	}
	return colleges, nil
}

func (m *collegeRepoMock) Update(_ context.Context, college domain.College) error {
	if _, ok := m.colleges[college.ID]; !ok {
		return repository.ErrNotFound
	}
	m.colleges[college.ID] = college
	return nil
}

func (m *collegeRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.colleges[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.colleges, id)
	return nil
}

type departmentRepoMock struct {
	departments map[string]domain.Department
	lastFilter  port.DepartmentFilter
}

func newDepartmentRepoMock(departments ...domain.Department) *departmentRepoMock {
	m := &departmentRepoMock{departments: make(map[string]domain.Department)}
	for _, department := range departments {
		m.departments[department.ID] = department
	}
	return m
}

func (m *departmentRepoMock) Create(_ context.Context, department domain.Department) error {
	m.departments[department.ID] = department
	return nil
}

func (m *departmentRepoMock) GetByID(_ context.Context, id string) (*domain.Department, error) {
	department, ok := m.departments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := department
	return &copy, nil
}

func (m *departmentRepoMock) List(_ context.Context, filter port.DepartmentFilter) ([]domain.Department, error) {
	m.lastFilter = filter
	departments := make([]domain.Department, 0, len(m.departments))
	for _, department := range m.departments {
		if filter.ID != nil && department.ID != *filter.ID {
			continue
		}
		if filter.CollegeID != nil && (department.CollegeID == nil || *department.CollegeID != *filter.CollegeID) {
			continue
		}
		departments = append(departments, department)
	}
	return departments, nil
}

func (m *departmentRepoMock) Update(_ context.Context, department domain.Department) error {
	if _, ok := m.departments[department.ID]; !ok {
		return repository.ErrNotFound
	}
	m.departments[department.ID] = department
	return nil
}

func (m *departmentRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.departments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.departments, id)
	return nil
}

type partnershipRepoMock struct {
	partnerships map[string]domain.Partnership
	rows         []domain.Partnership
	lastFilter   port.PartnershipFilter
	created      []domain.Partnership
	deleted      []string
}

func newPartnershipRepoMock(partnerships ...domain.Partnership) *partnershipRepoMock {
	m := &partnershipRepoMock{partnerships: make(map[string]domain.Partnership)}
	for _, partnership := range partnerships {
		m.partnerships[partnership.ID] = partnership
	}
	return m
}

func (m *partnershipRepoMock) Create(_ context.Context, partnership domain.Partnership) error {
	m.created = append(m.created, partnership)
	m.partnerships[partnership.ID] = partnership
	return nil
}

func (m *partnershipRepoMock) GetByID(_ context.Context, id string) (*domain.Partnership, error) {
	partnership, ok := m.partnerships[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := partnership
	return &copy, nil
}

// List records the filter and returns the canned rows; the SQL narrowing
// itself is covered by the repository tests.
func (m *partnershipRepoMock) List(_ context.Context, filter port.PartnershipFilter) ([]domain.Partnership, error) {
	m.lastFilter = filter
	return m.rows, nil
}

func (m *partnershipRepoMock) Update(_ context.Context, partnership domain.Partnership) error {
	if _, ok := m.partnerships[partnership.ID]; !ok {
		return repository.ErrNotFound
	}
	m.partnerships[partnership.ID] = partnership
	return nil
}

func (m *partnershipRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.partnerships[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.partnerships, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type refreshStoreMock struct {
	tokens  map[string]string
	saveErr error
}

func newRefreshStoreMock() *refreshStoreMock {
	return &refreshStoreMock{tokens: make(map[string]string)}
}

func (m *refreshStoreMock) Save(_ context.Context, tokenHash string, userID string, _ time.Duration) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.tokens[tokenHash] = userID
	return nil
}

func (m *refreshStoreMock) Resolve(_ context.Context, tokenHash string) (string, error) {
	userID, ok := m.tokens[tokenHash]
	if !ok {
		return "", repository.ErrNotFound
	}
	return userID, nil
}

func (m *refreshStoreMock) Revoke(_ context.Context, tokenHash string) error {
	delete(m.tokens, tokenHash)
	return nil
}

type eventRecorder struct {
	events []port.Event
}

func (m *eventRecorder) Publish(_ context.Context, event port.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *eventRecorder) Close() error { return nil }

func (m *eventRecorder) typesSeen() []string {
	types := make([]string, 0, len(m.events))
	for _, event := range m.events {
		types = append(types, event.Type)
	}
	return types
}

var errMockFailure = errors.New("mock failure")

func strPtr(value string) *string { return &value }

func rolePtr(role domain.Role) *domain.Role { return &role }

func intPtr(value int) *int { return &value }

func timePtr(value time.Time) *time.Time { return &value }

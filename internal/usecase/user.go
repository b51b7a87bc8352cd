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
	"github.com/joshwanee/hcdc-partnership/internal/infra/security"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

var (
	// ErrPermissionDenied indicates the caller may not perform the operation.
	ErrPermissionDenied = errors.New("insufficient permissions")
	// ErrUserNotFound indicates the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordRequired indicates user creation was attempted without a password.
	ErrPasswordRequired = errors.New("password is required")
	// ErrInvalidRole indicates the payload carries a role outside the closed set.
	ErrInvalidRole = errors.New("invalid role")
)

// RefChange models an optional reference field in a mutation payload.
// Provided distinguishes an absent field from an explicit clear (ID nil).
type RefChange struct {
	Provided bool
	ID       *string
}

// CreateUserInput captures an administrative user-creation payload.
type CreateUserInput struct {
	Username     string
	Email        string
	Password     string
	Role         domain.Role
	CollegeID    *string
	DepartmentID *string
}

// UpdateUserInput captures a partial user update. Nil fields are untouched.
type UpdateUserInput struct {
	Username   *string
	Email      *string
	Password   *string
	Role       *domain.Role
	College    RefChange
	Department RefChange
}

// UserService handles user lifecycle operations behind the user-management
// decision procedure. It resolves the hierarchy facts (the college owning a
// department) the engine needs, so the engine itself stays pure.
type UserService struct {
	users             port.UserRepository
	departments       port.DepartmentRepository
	engine            *authz.Engine
	passwordValidator *security.PasswordValidator
	events            port.EventPublisher
}

// NewUserService constructs UserService.
func NewUserService(
	users port.UserRepository,
	departments port.DepartmentRepository,
	engine *authz.Engine,
	validator *security.PasswordValidator,
	events port.EventPublisher,
) *UserService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	return &UserService{
		users:             users,
		departments:       departments,
		engine:            engine,
		passwordValidator: validator,
		events:            events,
	}
}

// List returns users visible to the caller. The collection itself is gated by
// the request-level rule only; per-object narrowing happens on retrieve.
func (s *UserService) List(ctx context.Context, id *authz.Identity, filter port.UserFilter) ([]domain.User, error) {
	if !s.engine.CanAttemptUser(id, authz.ActionRead, authz.ProposedUser{}) {
		return nil, s.denied(ctx, id, "user.list")
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Get retrieves a single user after the object-level gate.
func (s *UserService) Get(ctx context.Context, id *authz.Identity, targetID string) (*domain.User, error) {
	if !s.engine.CanAttemptUser(id, authz.ActionRead, authz.ProposedUser{}) {
		return nil, s.denied(ctx, id, "user.get")
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	target, err := s.targetFor(ctx, user)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanAccessUser(id, authz.ActionRead, target, authz.ProposedUser{}) {
		return nil, s.denied(ctx, id, "user.get")
	}

	user.PasswordHash = ""
	return user, nil
}

// Create persists a new user. Staff-equivalent access is stamped for the
// elevated roles, and a password is mandatory.
func (s *UserService) Create(ctx context.Context, id *authz.Identity, input CreateUserInput) (domain.User, error) {
	role := domain.Role(strings.TrimSpace(string(input.Role)))
	proposed := authz.ProposedUser{Role: &role}

	if !s.engine.CanAttemptUser(id, authz.ActionCreate, proposed) {
		return domain.User{}, s.denied(ctx, id, "user.create")
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return domain.User{}, ErrUsernameRequired
	}
	if !role.Valid() {
		return domain.User{}, ErrInvalidRole
	}

	password := strings.TrimSpace(input.Password)
	if password == "" {
		return domain.User{}, ErrPasswordRequired
	}
	if err := s.passwordValidator.Validate(password); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: passwordHash,
		Role:         role,
		CollegeID:    input.CollegeID,
		IsStaff:      role.IsStaff(),
		IsActive:     true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}

	if input.DepartmentID != nil {
		department, err := s.resolveDepartment(ctx, *input.DepartmentID)
		if err != nil {
			return domain.User{}, err
		}
		if department == nil {
			return domain.User{}, ErrDepartmentNotFound
		}
		user.DepartmentID = &department.ID
		// Keep the stored college aligned with the department's owner.
		user.CollegeID = department.CollegeID
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, id, "user.created", map[string]any{"user_id": user.ID, "role": string(user.Role)})

	user.PasswordHash = ""
	return user, nil
}

// Update applies a partial update after the two-phase decision.
func (s *UserService) Update(ctx context.Context, id *authz.Identity, targetID string, input UpdateUserInput) (*domain.User, error) {
	proposed := authz.ProposedUser{Role: input.Role}
	if input.Department.Provided {
		proposed.AssignsDepartment = true
		if input.Department.ID != nil {
			department, err := s.resolveDepartment(ctx, *input.Department.ID)
			if err != nil {
				return nil, err
			}
			proposed.Department = department
		}
	}

	if !s.engine.CanAttemptUser(id, authz.ActionUpdate, proposed) {
		return nil, s.denied(ctx, id, "user.update")
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	target, err := s.targetFor(ctx, user)
	if err != nil {
		return nil, err
	}
	if !s.engine.CanAccessUser(id, authz.ActionUpdate, target, proposed) {
		return nil, s.denied(ctx, id, "user.update")
	}

	// The engine already rejects a dangling assignment for college admins;
	// anyone else still gets a validation failure.
	if input.Department.Provided && input.Department.ID != nil && proposed.Department == nil {
		return nil, ErrDepartmentNotFound
	}

	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
		user.IsStaff = input.Role.IsStaff()
	}
	if input.College.Provided {
		user.CollegeID = input.College.ID
	}
	if input.Department.Provided {
		if proposed.Department != nil {
			user.DepartmentID = &proposed.Department.ID
			user.CollegeID = proposed.Department.CollegeID
		} else {
			user.DepartmentID = nil
		}
	}
	user.UpdatedAt = time.Now().UTC()

	// Validate and hash the password before any write so a policy violation
	// leaves the record untouched.
	var passwordHash string
	if input.Password != nil && strings.TrimSpace(*input.Password) != "" {
		password := strings.TrimSpace(*input.Password)
		if err := s.passwordValidator.Validate(password); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPasswordPolicyViolation, err)
		}
		passwordHash, err = security.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	if err := s.users.Update(ctx, *user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if passwordHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
			return nil, fmt.Errorf("update password: %w", err)
		}
	}

	s.publish(ctx, id, "user.updated", map[string]any{"user_id": user.ID})

	user.PasswordHash = ""
	return user, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id *authz.Identity, targetID string) error {
	if !s.engine.CanAttemptUser(id, authz.ActionDelete, authz.ProposedUser{}) {
		return s.denied(ctx, id, "user.delete")
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	target, err := s.targetFor(ctx, user)
	if err != nil {
		return err
	}
	if !s.engine.CanAccessUser(id, authz.ActionDelete, target, authz.ProposedUser{}) {
		return s.denied(ctx, id, "user.delete")
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.publish(ctx, id, "user.deleted", map[string]any{"user_id": targetID})
	return nil
}

// targetFor resolves the hierarchy facts of an existing user record for the
// object-level gate.
func (s *UserService) targetFor(ctx context.Context, user *domain.User) (authz.TargetUser, error) {
	target := authz.TargetUser{
		ID:           user.ID,
		Role:         user.Role,
		CollegeID:    user.CollegeID,
		DepartmentID: user.DepartmentID,
	}

	if user.DepartmentID != nil {
		department, err := s.resolveDepartment(ctx, *user.DepartmentID)
		if err != nil {
			return authz.TargetUser{}, err
		}
		if department != nil {
			target.DepartmentCollegeID = department.CollegeID
		}
	}

	return target, nil
}

func (s *UserService) resolveDepartment(ctx context.Context, departmentID string) (*domain.Department, error) {
	department, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup department: %w", err)
	}
	return department, nil
}

func (s *UserService) denied(ctx context.Context, id *authz.Identity, operation string) error {
	s.publish(ctx, id, "access.denied", map[string]any{"operation": operation})
	return ErrPermissionDenied
}

func (s *UserService) publish(ctx context.Context, id *authz.Identity, eventType string, payload map[string]any) {
	if s.events == nil {
		return
	}
	actorID := ""
	if id != nil {
		actorID = id.UserID
	}
	_ = s.events.Publish(ctx, port.Event{Type: eventType, ActorID: actorID, Payload: payload})
}

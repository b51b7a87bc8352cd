package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/infra/security"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

var (
	// ErrPasswordPolicyViolation indicates the password does not satisfy complexity requirements.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
	// ErrUsernameTaken indicates the username or email is already registered.
	ErrUsernameTaken = errors.New("username or email already taken")
)

// RegistrationService handles guest self-registration. Accounts created here
// always receive the guest role regardless of the payload.
type RegistrationService struct {
	users             port.UserRepository
	passwordValidator *security.PasswordValidator
	events            port.EventPublisher
}

// NewRegistrationService constructs a registration service.
func NewRegistrationService(users port.UserRepository, validator *security.PasswordValidator, events port.EventPublisher) *RegistrationService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	return &RegistrationService{users: users, passwordValidator: validator, events: events}
}

// RegisterGuestInput captures the open-registration payload.
type RegisterGuestInput struct {
	Username string
	Email    string
	Password string
}

// RegisterGuest creates a guest account.
func (s *RegistrationService) RegisterGuest(ctx context.Context, input RegisterGuestInput) (domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return domain.User{}, ErrUsernameRequired
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return domain.User{}, ErrEmailRequired
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
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleGuest,
		IsStaff:      false,
		IsActive:     true,
		RegisteredAt: now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, port.Event{
			Type:    "user.registered",
			ActorID: user.ID,
			Payload: map[string]any{"role": string(user.Role)},
		})
	}

	user.PasswordHash = ""
	return user, nil
}

package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/infra/security"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

const strongGuestPassword = "v1sitor!Portal#88"

func TestRegisterGuestForcesGuestRole(t *testing.T) {
	repo := newUserRepoMock()
	recorder := &eventRecorder{}
	service := NewRegistrationService(repo, security.DefaultPasswordValidator(), recorder)

	user, err := service.RegisterGuest(context.Background(), RegisterGuestInput{
		Username: "visitor",
		Email:    "visitor@example.com",
		Password: strongGuestPassword,
	})
	if err != nil {
		t.Fatalf("RegisterGuest returned error: %v", err)
	}

	if user.Role != domain.RoleGuest {
		t.Fatalf("expected guest role, got %s", user.Role)
	}
	if user.IsStaff {
		t.Fatalf("expected guest to not be staff")
	}
	if user.PasswordHash != "" {
		t.Fatalf("expected sanitized password hash in response")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one created user, got %d", len(repo.created))
	}
	if repo.created[0].PasswordHash == "" || repo.created[0].PasswordHash == strongGuestPassword {
		t.Fatalf("expected hashed password to be persisted")
	}
	if len(recorder.events) != 1 || recorder.events[0].Type != "user.registered" {
		t.Fatalf("expected user.registered event, got %v", recorder.typesSeen())
	}
}

func TestRegisterGuestRejectsWeakPassword(t *testing.T) {
	service := NewRegistrationService(newUserRepoMock(), security.DefaultPasswordValidator(), nil)

	if _, err := service.RegisterGuest(context.Background(), RegisterGuestInput{
		Username: "visitor",
		Email:    "visitor@example.com",
		Password: "abc123",
	}); !errors.Is(err, ErrPasswordPolicyViolation) {
		t.Fatalf("expected ErrPasswordPolicyViolation, got %v", err)
	}
}

func TestRegisterGuestMapsDuplicate(t *testing.T) {
	repo := newUserRepoMock()
	repo.createErr = repository.ErrDuplicate
	service := NewRegistrationService(repo, security.DefaultPasswordValidator(), nil)

	if _, err := service.RegisterGuest(context.Background(), RegisterGuestInput{
		Username: "visitor",
		Email:    "visitor@example.com",
		Password: strongGuestPassword,
	}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestRegisterGuestRequiresAllFields(t *testing.T) {
	service := NewRegistrationService(newUserRepoMock(), security.DefaultPasswordValidator(), &eventRecorder{})

	cases := []struct {
		name  string
		input RegisterGuestInput
		want  error
	}{
		{"missing username", RegisterGuestInput{Email: "v@example.com", Password: strongGuestPassword}, ErrUsernameRequired},
		{"missing email", RegisterGuestInput{Username: "visitor", Password: strongGuestPassword}, ErrEmailRequired},
		{"missing password", RegisterGuestInput{Username: "visitor", Email: "v@example.com"}, ErrPasswordRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.RegisterGuest(context.Background(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

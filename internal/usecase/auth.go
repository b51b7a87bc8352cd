package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joshwanee/hcdc-partnership/internal/core/domain"
	"github.com/joshwanee/hcdc-partnership/internal/core/port"
	"github.com/joshwanee/hcdc-partnership/internal/infra/security"
	"github.com/joshwanee/hcdc-partnership/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the provided identifier or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount indicates the account is disabled.
	ErrInactiveAccount = errors.New("account is not active")
	// ErrInvalidRefreshToken indicates the provided refresh token does not exist or was revoked.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

const refreshTokenBytes = 32

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AuthService coordinates credential verification and token issuance. Access
// tokens embed the role, college, and department claims the request
// dispatcher turns back into an identity.
type AuthService struct {
	users         port.UserRepository
	refreshTokens port.RefreshTokenStore
	tokenManager  *security.TokenManager
	refreshTTL    time.Duration
	events        port.EventPublisher
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	users port.UserRepository,
	refreshTokens port.RefreshTokenStore,
	tokenManager *security.TokenManager,
	refreshTTL time.Duration,
	events port.EventPublisher,
) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		tokenManager:  tokenManager,
		refreshTTL:    refreshTTL,
		events:        events,
	}
}

// Authenticate validates credentials and issues an access/refresh token pair.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (TokenPair, domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return TokenPair{}, domain.User{}, ErrIdentifierRequired
	}
	if password == "" {
		return TokenPair{}, domain.User{}, ErrPasswordRequired
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, domain.User{}, ErrInvalidCredentials
		}
		return TokenPair{}, domain.User{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		return TokenPair{}, domain.User{}, ErrInactiveAccount
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return TokenPair{}, domain.User{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return TokenPair{}, domain.User{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return TokenPair{}, domain.User{}, err
	}

	if s.events != nil {
		_ = s.events.Publish(ctx, port.Event{
			Type:    "auth.login",
			ActorID: user.ID,
			Payload: map[string]any{"role": string(user.Role)},
		})
	}

	sanitized := *user
	sanitized.PasswordHash = ""
	return pair, sanitized, nil
}

// Refresh rotates a refresh token and issues a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	tokenHash := security.HashToken(refreshToken)
	userID, err := s.refreshTokens.Resolve(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, fmt.Errorf("resolve refresh token: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.IsActive {
		return TokenPair{}, ErrInactiveAccount
	}

	if err := s.refreshTokens.Revoke(ctx, tokenHash); err != nil {
		return TokenPair{}, fmt.Errorf("revoke refresh token: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (TokenPair, error) {
	accessToken, err := s.tokenManager.Issue(user.ID, string(user.Role), user.CollegeID, user.DepartmentID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := security.GenerateSecureToken(refreshTokenBytes)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.refreshTokens.Save(ctx, security.HashToken(refreshToken), user.ID, s.refreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenManager.AccessTTL().Seconds()),
	}, nil
}

package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"
)

// ErrExpiredToken indicates the supplied token is past its expiry.
var ErrExpiredToken = errors.New("token: expired")

// ErrInvalidToken indicates the supplied token failed validation.
var ErrInvalidToken = errors.New("token: invalid")

// AccessClaims augments registered claims with the caller's role and
// administrative affiliations. College and Department carry the ids the
// authorization core scopes by; they are nil for unaffiliated users.
type AccessClaims struct {
	UserID     string  `json:"uid"`
	Role       string  `json:"role"`
	College    *string `json:"college,omitempty"`
	Department *string `json:"department,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses HMAC access tokens.
type TokenManager struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
}

// NewTokenManager constructs a TokenManager for the supplied signing secret.
func NewTokenManager(secret, issuer string, accessTTL time.Duration) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("token: signing secret is required")
	}
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &TokenManager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
	}, nil
}

// Issue signs an access token embedding the caller's role and affiliations.
func (m *TokenManager) Issue(userID, role string, collegeID, departmentID *string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("token: user id is required")
	}

	now := time.Now().UTC()
	claims := AccessClaims{
		UserID:     userID,
		Role:       role,
		College:    collegeID,
		Department: departmentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Parse validates an access token and returns its claims.
func (m *TokenManager) Parse(token string) (*AccessClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithAudience(m.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// AccessTTL exposes the configured access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

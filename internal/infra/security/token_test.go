package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenManagerIssueAndParse(t *testing.T) {
	mgr, err := NewTokenManager("test-secret", "hcdc-partnership", time.Minute)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}

	college := "college-a"
	token, err := mgr.Issue("user-1", "COLLEGE_ADMIN", &college, nil)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := mgr.Parse(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Role != "COLLEGE_ADMIN" {
		t.Errorf("Role = %q, want COLLEGE_ADMIN", claims.Role)
	}
	if claims.College == nil || *claims.College != "college-a" {
		t.Errorf("College = %v, want college-a", claims.College)
	}
	if claims.Department != nil {
		t.Errorf("Department = %v, want nil", claims.Department)
	}
}

func TestTokenManagerRejectsExpired(t *testing.T) {
	mgr, err := NewTokenManager("test-secret", "hcdc-partnership", -time.Minute)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	// Negative TTL is clamped to the default, so build an expired one manually
	// via a very short lifetime manager.
	short, err := NewTokenManager("test-secret", "hcdc-partnership", time.Nanosecond)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}

	token, err := short.Issue("user-1", "GUEST", nil, nil)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := mgr.Parse(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenManagerRejectsTampered(t *testing.T) {
	mgr, err := NewTokenManager("test-secret", "hcdc-partnership", time.Minute)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}
	other, err := NewTokenManager("other-secret", "hcdc-partnership", time.Minute)
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}

	token, err := other.Issue("user-1", "GUEST", nil, nil)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := mgr.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	if _, err := mgr.Parse(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

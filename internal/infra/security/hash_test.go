package security

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("linkages-2024!x")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.Contains(hash, ":") {
		t.Fatalf("expected salt:hash encoding, got %q", hash)
	}

	ok, err := VerifyPassword("linkages-2024!x", hash)
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Fatal("expected password to verify")
	}

	ok, err = VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail verification")
	}
}

func TestVerifyPasswordEmptyInputs(t *testing.T) {
	if ok, err := VerifyPassword("", "salt:hash"); err != nil || ok {
		t.Fatalf("expected empty password to fail cleanly, got ok=%v err=%v", ok, err)
	}
	if ok, err := VerifyPassword("password", ""); err != nil || ok {
		t.Fatalf("expected empty hash to fail cleanly, got ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("password", "not-a-valid-encoding"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestGenerateSecureTokenUnique(t *testing.T) {
	a, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	b, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct random tokens")
	}
}

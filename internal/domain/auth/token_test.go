package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	claims := Claims{AccountID: "a1", Email: "hr@workflow.pro", Role: RoleHRAdmin, EmployeeID: "1"}

	token, err := GenerateToken(secret, claims, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if parsed.AccountID != claims.AccountID || parsed.Role != claims.Role || parsed.EmployeeID != claims.EmployeeID {
		t.Fatalf("claims mismatch: %+v", parsed)
	}
}

func TestParseTokenRejectsExpiredAndForeign(t *testing.T) {
	expired, err := GenerateToken("s", Claims{AccountID: "a1", Role: RoleUser}, time.Now().Add(-2*time.Hour), time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("s", expired); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	other, err := GenerateToken("other", Claims{AccountID: "a1", Role: RoleUser}, time.Now(), time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("s", other); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

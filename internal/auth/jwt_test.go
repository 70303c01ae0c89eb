package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	userID := uuid.New()
	token, err := GenerateJWT("test-secret", userID, "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT("test-secret", token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("Email = %s, want a@example.com", claims.Email)
	}
	if claims.ID == "" {
		t.Error("jti is empty; tokens must be individually revocable")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("test-secret", uuid.New(), "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT("other-secret", token); err == nil {
		t.Error("expected parse error with wrong secret")
	}
}

func TestJWTDefaultExpiration(t *testing.T) {
	// Non-positive expiration falls back to the 24h default.
	token, err := GenerateJWT("test-secret", uuid.New(), "a@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT("test-secret", token); err != nil {
		t.Errorf("default-expiration token should parse: %v", err)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash must not equal the plain text")
	}
	if !CheckPassword("s3cret-password", hash) {
		t.Error("CheckPassword rejected the right password")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("CheckPassword accepted the wrong password")
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestJWTFlow(t *testing.T) {
	m, err := NewTokenManager("test-secret-key-12345", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userID := uuid.New().String()
	email := "test@example.com"

	token, err := m.GenerateToken(userID, email)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	id, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}

	if id.UserID != userID {
		t.Fatalf("Expected userID %s, got %s", userID, id.UserID)
	}
	if id.Email != email {
		t.Fatalf("Expected email %s, got %s", email, id.Email)
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	m, _ := NewTokenManager("secret-a", time.Hour)
	other, _ := NewTokenManager("secret-b", time.Hour)

	foreign, _ := other.GenerateToken("user-1", "a@example.com")
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": "user-1",
		"exp":    time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret-a"))
	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret-a"))

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      expired,
		"no user id":   noUser,
	}
	for name, token := range tests {
		if _, err := m.ValidateToken(token); err != ErrInvalidToken {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

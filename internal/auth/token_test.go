package auth

import (
	"testing"
	"time"
)

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.GenerateAccessToken("user-42", "someone@example.com")
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.Type != "access" {
		t.Errorf("expected type access, got %q", claims.Type)
	}
	if claims.UserID != "user-42" {
		t.Errorf("expected user-42, got %q", claims.UserID)
	}
	if claims.Email != "someone@example.com" {
		t.Errorf("unexpected email %q", claims.Email)
	}
	if claims.ID == "" {
		t.Error("expected a JTI to be set")
	}
}

func TestTokenManager_RefreshTokenType(t *testing.T) {
	tm := newTestTokenManager()

	token, err := tm.GenerateRefreshToken("user-42", "someone@example.com")
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if claims.Type != "refresh" {
		t.Errorf("expected type refresh, got %q", claims.Type)
	}
}

func TestTokenManager_UniqueJTIs(t *testing.T) {
	tm := newTestTokenManager()

	first, err := tm.GenerateAccessToken("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	second, err := tm.GenerateAccessToken("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	firstClaims, err := tm.ValidateToken(first)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	secondClaims, err := tm.ValidateToken(second)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	if firstClaims.ID == secondClaims.ID {
		t.Error("expected distinct JTIs for separate tokens")
	}
}

func TestTokenManager_ExpiredTokenRejected(t *testing.T) {
	tm := NewTokenManager("test-secret-key-for-middleware-tests", -time.Minute, -time.Minute)

	token, err := tm.GenerateAccessToken("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := tm.ValidateToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestTokenManager_WrongSecretRejected(t *testing.T) {
	tm := newTestTokenManager()
	other := NewTokenManager("a-completely-different-signing-secret", 15*time.Minute, time.Hour)

	token, err := tm.GenerateAccessToken("user-1", "a@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func TestTokenManager_GarbageRejected(t *testing.T) {
	tm := newTestTokenManager()

	for _, input := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := tm.ValidateToken(input); err == nil {
			t.Errorf("expected %q to be rejected", input)
		}
	}
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager("test-secret-key-for-middleware-tests", 15*time.Minute, 7*24*time.Hour)
}

type stubRevocationChecker struct {
	revoked map[string]bool
}

func (s *stubRevocationChecker) IsTokenRevoked(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], nil
}

func passthroughHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_ValidAccessToken(t *testing.T) {
	tm := newTestTokenManager()
	token, err := tm.GenerateAccessToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var called bool
	var gotUserID, gotToken string
	handler := AuthMiddleware(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if claims := GetUserFromContext(r); claims != nil {
			gotUserID = claims.UserID
		}
		gotToken = GetTokenFromContext(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("expected handler to be called")
	}
	if gotUserID != "user-1" {
		t.Errorf("expected user-1 in context, got %q", gotUserID)
	}
	if gotToken != token {
		t.Error("expected raw token in context")
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tm := newTestTokenManager()

	var called bool
	handler := AuthMiddleware(tm)(passthroughHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("handler should not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	tm := newTestTokenManager()

	for _, header := range []string{"Bearer", "Basic abc123", "garbage"} {
		var called bool
		handler := AuthMiddleware(tm)(passthroughHandler(&called))

		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if called {
			t.Errorf("handler should not run for header %q", header)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 for header %q, got %d", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	tm := newTestTokenManager()
	token, err := tm.GenerateRefreshToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	var called bool
	handler := AuthMiddleware(tm)(passthroughHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("refresh tokens must not grant API access")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareWithRevocation_RevokedToken(t *testing.T) {
	tm := newTestTokenManager()
	token, err := tm.GenerateAccessToken("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := tm.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}

	checker := &stubRevocationChecker{revoked: map[string]bool{claims.ID: true}}

	var called bool
	handler := AuthMiddlewareWithRevocation(tm, checker)(passthroughHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("revoked token should be rejected")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestGetUserFromContext_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	if claims := GetUserFromContext(req); claims != nil {
		t.Error("expected nil claims for unauthenticated request")
	}
	if token := GetTokenFromContext(req); token != "" {
		t.Error("expected empty token for unauthenticated request")
	}
}

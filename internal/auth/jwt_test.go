package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := m.Generate(&User{ID: 42, Email: "a@b.c", Username: "ab", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 || claims.Role != RoleAdmin || claims.Username != "ab" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}
}

func TestTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	m, _ := NewTokenManager("secret", time.Hour)
	other, _ := NewTokenManager("other", time.Hour)

	token, _ := m.Generate(&User{ID: 1})
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestInMemoryRevocationStore(t *testing.T) {
	s := NewInMemoryRevocationStore()
	ctx := context.Background()

	_ = s.Revoke(ctx, "abc", time.Minute)
	if revoked, _ := s.IsRevoked(ctx, "abc"); !revoked {
		t.Fatalf("expected abc to be revoked")
	}
	if revoked, _ := s.IsRevoked(ctx, "xyz"); revoked {
		t.Fatalf("expected xyz not to be revoked")
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if revoked, _ := s.IsRevoked(ctx, "abc"); revoked {
		t.Fatalf("expected revocation to lapse after ttl")
	}
}

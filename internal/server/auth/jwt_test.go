package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParseAccessToken_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("access-secret")

	tok, err := GenerateAccessToken("user-123", "alice", "alice@example.com", "admin", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	claims, err := ParseAccessToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != "user-123" || claims.Username != "alice" ||
		claims.Email != "alice@example.com" || claims.Role != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestGenerateAndParseRefreshToken_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("refresh-secret")

	tok, err := GenerateRefreshToken("user-123", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken error: %v", err)
	}

	claims, err := ParseRefreshToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseRefreshToken error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("userID mismatch: got %q", claims.UserID)
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateAccessToken("u1", "u", "u@example.com", "user", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = ParseAccessToken(tok, secret)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateAccessToken("u2", "u", "u@example.com", "user", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = ParseAccessToken(tok, []byte("wrong-secret"))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for invalid signature, got %v", err)
	}
}

func TestParseRefreshToken_RejectsAccessToken(t *testing.T) {
	t.Parallel()

	// Access and refresh tokens are signed with different secrets, so an
	// access token presented on the refresh path must fail verification.
	access, err := GenerateAccessToken("u3", "u", "u@example.com", "user", []byte("access-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	_, err = ParseRefreshToken(access, []byte("refresh-secret"))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseAccessToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseAccessToken("not.a.jwt", []byte("k"))
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

package mail

import (
	"strings"
	"testing"
)

func TestVerificationMessage(t *testing.T) {
	t.Parallel()

	subject, body := VerificationMessage("https://auth.example.com", "deadbeef")
	if subject == "" {
		t.Fatalf("empty subject")
	}
	if !strings.Contains(body, "https://auth.example.com/verify-email?token=deadbeef") {
		t.Fatalf("body is missing the verification link:\n%s", body)
	}
}

func TestPasswordResetMessage(t *testing.T) {
	t.Parallel()

	subject, body := PasswordResetMessage("https://auth.example.com", "deadbeef")
	if subject == "" {
		t.Fatalf("empty subject")
	}
	if !strings.Contains(body, "https://auth.example.com/reset-password?token=deadbeef") {
		t.Fatalf("body is missing the reset link:\n%s", body)
	}
}

package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestNewOneTimeToken(t *testing.T) {
	t.Parallel()

	tok, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("NewOneTimeToken error: %v", err)
	}

	if !ValidOneTimeTokenFormat(tok.Plain) {
		t.Fatalf("plaintext has unexpected format: %q", tok.Plain)
	}

	sum := sha256.Sum256([]byte(tok.Plain))
	if want := hex.EncodeToString(sum[:]); tok.Digest != want {
		t.Fatalf("digest mismatch: got %q want %q", tok.Digest, want)
	}

	other, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("NewOneTimeToken error: %v", err)
	}
	if other.Plain == tok.Plain {
		t.Fatalf("two generated tokens are identical")
	}
}

func TestHashOneTimeToken_Deterministic(t *testing.T) {
	t.Parallel()

	if HashOneTimeToken("abc") != HashOneTimeToken("abc") {
		t.Fatalf("digest is not deterministic")
	}
	if HashOneTimeToken("abc") == HashOneTimeToken("abd") {
		t.Fatalf("different inputs produced the same digest")
	}
}

func TestValidOneTimeTokenFormat(t *testing.T) {
	t.Parallel()

	valid, err := NewOneTimeToken()
	if err != nil {
		t.Fatalf("NewOneTimeToken error: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"generated token", valid.Plain, true},
		{"empty", "", false},
		{"too short", "abcdef", false},
		{"too long", valid.Plain + "00", false},
		{"uppercase hex rejected", "ABCDEF" + valid.Plain[6:], false},
		{"non-hex characters", "zz" + valid.Plain[2:], false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidOneTimeTokenFormat(tt.in); got != tt.want {
				t.Fatalf("ValidOneTimeTokenFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

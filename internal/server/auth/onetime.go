package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/mzaytsev/authd/internal/shared"
)

// oneTimeTokenBytes is the entropy of an emailed token. The hex encoding
// doubles it, so the plaintext is 64 characters.
const oneTimeTokenBytes = 32

// OneTimeToken is a single-use token sent to the user by email. Plain is
// what goes into the link; Digest is the only form that is persisted.
type OneTimeToken struct {
	Plain  string
	Digest string
}

// NewOneTimeToken generates a fresh one-shot token.
func NewOneTimeToken() (*OneTimeToken, error) {
	plain, err := shared.MakeRandHexString(oneTimeTokenBytes)
	if err != nil {
		return nil, err
	}
	return &OneTimeToken{Plain: plain, Digest: HashOneTimeToken(plain)}, nil
}

// HashOneTimeToken returns the hex SHA-256 digest of a presented token.
// Lookups against storage always go through this function, so a database
// leak does not expose usable tokens.
func HashOneTimeToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// ValidOneTimeTokenFormat reports whether s has the transport format
// produced by NewOneTimeToken: exactly 64 lowercase hex characters.
func ValidOneTimeTokenFormat(s string) bool {
	if len(s) != 2*oneTimeTokenBytes {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Package auth implements the token codec of the server: short-lived access
// tokens and long-lived refresh tokens signed with distinct HS256 secrets,
// plus the one-shot tokens sent by email for verification and password reset.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every token verification failure. Expired,
// tampered, and malformed tokens are deliberately indistinguishable to the
// caller.
var ErrInvalidToken = errors.New("invalid or expired token")

// AccessClaims are carried by access tokens. The payload mirrors what the
// frontend reads from the token: identity plus role.
type AccessClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
	UserID   string `json:"id"`
	Role     string `json:"role"`
}

// RefreshClaims are carried by refresh tokens. Only the user ID is included;
// the rest of the identity is re-resolved from the store on refresh.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// GenerateAccessToken signs an access token for the given identity.
func GenerateAccessToken(userID, username, email, role string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Username: username,
		Email:    email,
		UserID:   userID,
		Role:     role,
	})

	return token.SignedString(secret)
}

// GenerateRefreshToken signs a refresh token for the given user ID. The
// refresh secret must differ from the access secret so the two token kinds
// cannot be swapped.
func GenerateRefreshToken(userID string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID: userID,
	})

	return token.SignedString(secret)
}

// ParseAccessToken verifies an access token and returns its claims.
// Any failure is reported as ErrInvalidToken.
func ParseAccessToken(tokenString string, secret []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseInto(tokenString, claims, secret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefreshToken verifies a refresh token and returns its claims.
// Any failure is reported as ErrInvalidToken.
func ParseRefreshToken(tokenString string, secret []byte) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parseInto(tokenString, claims, secret); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseInto(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}

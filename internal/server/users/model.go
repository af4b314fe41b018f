// Package users implements the account store and the session lifecycle
// engine built on top of it: registration, email verification, login,
// token refresh, password reset, and the admin-facing account operations.
package users

import "time"

// Roles an account can hold. New accounts default to RoleUser.
const (
	RoleUser   = "user"
	RoleDriver = "driver"
	RoleAdmin  = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleDriver || r == RoleAdmin
}

// User is the account record. Credential material and one-shot token
// digests never leave the server, hence the "-" JSON tags.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	IsVerified   bool   `json:"isVerified"`

	// One-shot token state. A digest and its expiry are always set and
	// cleared together.
	VerificationTokenDigest  *string    `json:"-"`
	VerificationTokenExpires *time.Time `json:"-"`
	ResetTokenDigest         *string    `json:"-"`
	ResetTokenExpires        *time.Time `json:"-"`

	// LastEmailSentAt drives the resend cooldown.
	LastEmailSentAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

package users

import (
	"context"
	"time"
)

// Repository is the persistence contract of the account store.
//
// ConsumeVerificationToken and ConsumeResetToken are the single-use gates
// for emailed tokens: each is one conditional UPDATE matching an unexpired
// digest, so concurrent presentations of the same token cannot both succeed.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id string) error

	// SetVerificationToken stores a new verification token digest, replacing
	// any previous one, and records the email dispatch time.
	SetVerificationToken(ctx context.Context, id, digest string, expiresAt, sentAt time.Time) error

	// SetResetToken stores a new password-reset token digest, replacing any
	// previous one, and records the email dispatch time.
	SetResetToken(ctx context.Context, id, digest string, expiresAt, sentAt time.Time) error

	// ConsumeVerificationToken marks the matching account verified and
	// clears the token pair. It fails when no unexpired digest matches.
	ConsumeVerificationToken(ctx context.Context, digest string, now time.Time) (*User, error)

	// ConsumeResetToken replaces the password hash of the matching account
	// and clears the token pair. It fails when no unexpired digest matches.
	ConsumeResetToken(ctx context.Context, digest, newPasswordHash string, now time.Time) (*User, error)
}

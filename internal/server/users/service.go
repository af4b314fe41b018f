package users

import (
	"context"
	"math"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mzaytsev/authd/internal/logging"
	"github.com/mzaytsev/authd/internal/server/auth"
	"github.com/mzaytsev/authd/internal/server/config"
	"github.com/mzaytsev/authd/internal/server/mail"
	"github.com/mzaytsev/authd/internal/shared"
)

const bcryptCost = 10

// Mailer is the outbound-email collaborator of the engine. Implemented by
// mail.SMTPMailer; faked in tests.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TokenPair is what a successful login produces.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service implements the session lifecycle: registration with email
// verification, login, token refresh, password reset, and the admin-facing
// account operations.
type Service struct {
	repo   Repository
	mailer Mailer
	logger logging.Logger

	accessSecret    []byte
	refreshSecret   []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
	oneTimeValidity time.Duration
	resendCooldown  time.Duration
	appURL          string
}

func NewService(repo Repository, mailer Mailer, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:            repo,
		mailer:          mailer,
		logger:          logger.With("module", "users"),
		accessSecret:    []byte(cfg.AccessTokenSecret),
		refreshSecret:   []byte(cfg.RefreshTokenSecret),
		accessValidity:  cfg.AccessTokenValidityDuration,
		refreshValidity: cfg.RefreshTokenValidityDuration,
		oneTimeValidity: cfg.OneTimeTokenValidityDuration,
		resendCooldown:  cfg.EmailResendCooldown,
		appURL:          cfg.AppURL,
	}
}

// Register creates an unverified account and dispatches the verification
// email. There is no transaction spanning the store write and the email
// send: if the send fails, the just-created account is deleted again so the
// address can retry registration.
func (s *Service) Register(ctx context.Context, username, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.Internal("error hashing password", err)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, shared.Validation("User already exists")
	} else if shared.KindOf(err) != shared.KindNotFound {
		return nil, err
	}

	token, err := auth.NewOneTimeToken()
	if err != nil {
		return nil, shared.Internal("error generating verification token", err)
	}

	now := time.Now()
	expires := now.Add(s.oneTimeValidity)
	user := &User{
		Username:                 username,
		Email:                    email,
		PasswordHash:             string(hash),
		Role:                     RoleUser,
		VerificationTokenDigest:  &token.Digest,
		VerificationTokenExpires: &expires,
		LastEmailSentAt:          &now,
	}

	// The unique constraints are the real duplicate guard; the pre-check
	// above only improves the common-case message.
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	subject, body := mail.VerificationMessage(s.appURL, token.Plain)
	if err := s.mailer.Send(ctx, created.Email, subject, body); err != nil {
		s.logger.Error(ctx, "verification email failed, rolling back registration",
			"user_id", created.ID, "error", err)
		if delErr := s.repo.Delete(ctx, created.ID); delErr != nil {
			s.logger.Error(ctx, "compensating delete failed", "user_id", created.ID, "error", delErr)
		}
		return nil, shared.Internal("Verification email could not be sent", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// VerifyEmail consumes a verification token. The consume is a single
// conditional update in the store, so a token can be used at most once.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if !auth.ValidOneTimeTokenFormat(token) {
		return shared.Validation("Invalid or expired verification token")
	}

	user, err := s.repo.ConsumeVerificationToken(ctx, auth.HashOneTimeToken(token), time.Now())
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "email verified", "user_id", user.ID)
	return nil
}

// ResendVerificationEmail rotates the verification token and sends a new
// email, subject to the per-account cooldown.
func (s *Service) ResendVerificationEmail(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return shared.Validation("Email is already verified")
	}

	if err := s.checkCooldown(user); err != nil {
		return err
	}

	token, err := auth.NewOneTimeToken()
	if err != nil {
		return shared.Internal("error generating verification token", err)
	}

	now := time.Now()
	if err := s.repo.SetVerificationToken(ctx, user.ID, token.Digest, now.Add(s.oneTimeValidity), now); err != nil {
		return err
	}

	subject, body := mail.VerificationMessage(s.appURL, token.Plain)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return shared.Internal("Verification email could not be sent", err)
	}

	return nil
}

// checkCooldown returns a Cooldown error while the resend window is still
// open. The reported seconds are rounded up, so repeated calls always see a
// strictly decreasing value.
func (s *Service) checkCooldown(user *User) error {
	if user.LastEmailSentAt == nil {
		return nil
	}
	remaining := s.resendCooldown - time.Since(*user.LastEmailSentAt)
	if remaining <= 0 {
		return nil
	}
	return shared.Cooldown(int(math.Ceil(remaining.Seconds())))
}

// Login verifies credentials and mints a token pair. Unknown accounts and
// wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return nil, nil, shared.Unauthorized("email or password not valid")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, shared.Unauthorized("email or password not valid")
	}

	if !user.IsVerified {
		return nil, nil, shared.Unauthorized("Email is not verified")
	}

	pair, err := s.mintTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return user, pair, nil
}

func (s *Service) mintTokenPair(user *User) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(user.ID, user.Username, user.Email, user.Role, s.accessSecret, s.accessValidity)
	if err != nil {
		return nil, shared.Internal("error generating access token", err)
	}

	refresh, err := auth.GenerateRefreshToken(user.ID, s.refreshSecret, s.refreshValidity)
	if err != nil {
		return nil, shared.Internal("error generating refresh token", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccessToken verifies a refresh token and mints a fresh access
// token. The identity is re-resolved from the store, so a deleted account
// cannot keep refreshing.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := auth.ParseRefreshToken(refreshToken, s.refreshSecret)
	if err != nil {
		return "", shared.Forbidden("Invalid refresh token or session expired")
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return "", shared.Forbidden("User no longer exists")
		}
		return "", err
	}

	access, err := auth.GenerateAccessToken(user.ID, user.Username, user.Email, user.Role, s.accessSecret, s.accessValidity)
	if err != nil {
		return "", shared.Internal("error generating access token", err)
	}

	return access, nil
}

// ForgotPassword rotates the reset token and emails the reset link. Whether
// the address belongs to an account is not revealed to the caller: for an
// unknown address the method is a no-op.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			s.logger.Debug(ctx, "password reset requested for unknown address")
			return nil
		}
		return err
	}

	if err := s.checkCooldown(user); err != nil {
		return err
	}

	token, err := auth.NewOneTimeToken()
	if err != nil {
		return shared.Internal("error generating reset token", err)
	}

	now := time.Now()
	if err := s.repo.SetResetToken(ctx, user.ID, token.Digest, now.Add(s.oneTimeValidity), now); err != nil {
		return err
	}

	subject, body := mail.PasswordResetMessage(s.appURL, token.Plain)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		return shared.Internal("Password reset email could not be sent", err)
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the password. Existing
// sessions are not revoked: refresh tokens are stateless, so they remain
// valid until expiry.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !auth.ValidOneTimeTokenFormat(token) {
		return shared.Validation("Invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.Internal("error hashing password", err)
	}

	user, err := s.repo.ConsumeResetToken(ctx, auth.HashOneTimeToken(token), string(hash), time.Now())
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// GetUser returns the account with the given ID.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers returns all accounts.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// CreateUser provisions an account directly, without the verification email
// flow. Admin-created accounts are considered verified: they were created
// deliberately and no token is ever emailed for them.
func (s *Service) CreateUser(ctx context.Context, username, email, password, role string) (*User, error) {
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return nil, shared.Validation("Invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.Internal("error hashing password", err)
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsVerified:   true,
	}

	return s.repo.Create(ctx, user)
}

// UpdatePatch carries the optional fields of an account update. Nil fields
// are left unchanged; a non-nil Password is re-hashed.
type UpdatePatch struct {
	Username *string
	Email    *string
	Password *string
	Role     *string
}

// UpdateUser applies a partial update to the account with the given ID.
func (s *Service) UpdateUser(ctx context.Context, id string, patch UpdatePatch) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Role != nil {
		if !ValidRole(*patch.Role) {
			return nil, shared.Validation("Invalid role")
		}
		user.Role = *patch.Role
	}
	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcryptCost)
		if err != nil {
			return nil, shared.Internal("error hashing password", err)
		}
		user.PasswordHash = string(hash)
	}

	return s.repo.Update(ctx, user)
}

// DeleteUser removes the account with the given ID.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

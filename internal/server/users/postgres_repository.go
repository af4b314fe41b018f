package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mzaytsev/authd/internal/shared"
)

// pgUniqueViolation is the SQLSTATE for a unique-constraint violation.
const pgUniqueViolation = "23505"

const userColumns = `id, username, email, password_hash, role, is_verified,
	 email_verification_token_digest, email_verification_expires_at,
	 password_reset_token_digest, password_reset_expires_at,
	 last_email_sent_at, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// duplicateField maps a unique-constraint name to the API-facing field name.
func duplicateField(constraint string) string {
	switch constraint {
	case "users_username_key":
		return "username"
	case "users_email_key":
		return "email"
	default:
		return constraint
	}
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return shared.Duplicate(duplicateField(pgErr.ConstraintName))
	}
	return shared.Internal("error performing sql request", err)
}

func scanUser(row *sql.Row) (*User, error) {
	u := &User{}
	var (
		verDigest  sql.NullString
		verExpires sql.NullTime
		rstDigest  sql.NullString
		rstExpires sql.NullTime
		lastSent   sql.NullTime
	)

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsVerified,
		&verDigest, &verExpires, &rstDigest, &rstExpires, &lastSent,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if verDigest.Valid {
		u.VerificationTokenDigest = &verDigest.String
		u.VerificationTokenExpires = &verExpires.Time
	}
	if rstDigest.Valid {
		u.ResetTokenDigest = &rstDigest.String
		u.ResetTokenExpires = &rstExpires.Time
	}
	if lastSent.Valid {
		u.LastEmailSentAt = &lastSent.Time
	}

	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO users (id, username, email, password_hash, role, is_verified,
		     email_verification_token_digest, email_verification_expires_at,
		     last_email_sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.IsVerified,
		user.VerificationTokenDigest, user.VerificationTokenExpires, user.LastEmailSentAt).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapWriteError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFound("User not found")
		}
		return nil, shared.Internal("error performing sql request", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFound("User not found")
		}
		return nil, shared.Internal("error performing sql request", err)
	}

	return user, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, shared.Internal("error performing sql request", err)
	}
	defer rows.Close()

	var result []*User
	for rows.Next() {
		u := &User{}
		var (
			verDigest  sql.NullString
			verExpires sql.NullTime
			rstDigest  sql.NullString
			rstExpires sql.NullTime
			lastSent   sql.NullTime
		)
		err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsVerified,
			&verDigest, &verExpires, &rstDigest, &rstExpires, &lastSent,
			&u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, shared.Internal("error performing sql request", err)
		}
		if verDigest.Valid {
			u.VerificationTokenDigest = &verDigest.String
			u.VerificationTokenExpires = &verExpires.Time
		}
		if rstDigest.Valid {
			u.ResetTokenDigest = &rstDigest.String
			u.ResetTokenExpires = &rstExpires.Time
		}
		if lastSent.Valid {
			u.LastEmailSentAt = &lastSent.Time
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.Internal("error performing sql request", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *User) (*User, error) {
	query :=
		`UPDATE users
		 SET username = $2, email = $3, password_hash = $4, role = $5,
		     is_verified = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.IsVerified))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFound("User not found")
		}
		return nil, mapWriteError(err)
	}

	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return shared.Internal("error performing sql request", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return shared.Internal("error performing sql request", err)
	}
	if affected == 0 {
		return shared.NotFound("User not found")
	}

	return nil
}

func (r *PostgresRepository) SetVerificationToken(ctx context.Context, id, digest string, expiresAt, sentAt time.Time) error {
	query :=
		`UPDATE users
		 SET email_verification_token_digest = $2, email_verification_expires_at = $3,
		     last_email_sent_at = $4, updated_at = now()
		 WHERE id = $1`

	return r.execOnUser(ctx, query, id, digest, expiresAt, sentAt)
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, id, digest string, expiresAt, sentAt time.Time) error {
	query :=
		`UPDATE users
		 SET password_reset_token_digest = $2, password_reset_expires_at = $3,
		     last_email_sent_at = $4, updated_at = now()
		 WHERE id = $1`

	return r.execOnUser(ctx, query, id, digest, expiresAt, sentAt)
}

func (r *PostgresRepository) execOnUser(ctx context.Context, query, id string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return shared.Internal("error performing sql request", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return shared.Internal("error performing sql request", err)
	}
	if affected == 0 {
		return shared.NotFound("User not found")
	}

	return nil
}

// ConsumeVerificationToken is a single conditional UPDATE, so two
// concurrent presentations of the same token cannot both verify.
func (r *PostgresRepository) ConsumeVerificationToken(ctx context.Context, digest string, now time.Time) (*User, error) {
	query :=
		`UPDATE users
		 SET is_verified = true,
		     email_verification_token_digest = NULL,
		     email_verification_expires_at = NULL,
		     updated_at = now()
		 WHERE email_verification_token_digest = $1
		   AND email_verification_expires_at > $2
		 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, digest, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.Validation("Invalid or expired verification token")
		}
		return nil, shared.Internal("error performing sql request", err)
	}

	return user, nil
}

// ConsumeResetToken follows the same single-statement pattern as
// ConsumeVerificationToken.
func (r *PostgresRepository) ConsumeResetToken(ctx context.Context, digest, newPasswordHash string, now time.Time) (*User, error) {
	query :=
		`UPDATE users
		 SET password_hash = $3,
		     password_reset_token_digest = NULL,
		     password_reset_expires_at = NULL,
		     updated_at = now()
		 WHERE password_reset_token_digest = $1
		   AND password_reset_expires_at > $2
		 RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, digest, now, newPasswordHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.Validation("Invalid or expired reset token")
		}
		return nil, shared.Internal("error performing sql request", err)
	}

	return user, nil
}

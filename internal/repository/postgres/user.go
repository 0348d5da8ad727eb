package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/pkg/database"
	apperrors "github.com/utafrali/mailer/pkg/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db  database.DBTX
	now func() time.Time
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Upsert inserts the profile or merges its non-empty fields into the stored
// row. The verification flag is always overwritten.
func (r *UserRepository) Upsert(ctx context.Context, u *domain.User) (err error) {
	query := `
		INSERT INTO users (id, name, email, photo_url, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			photo_url = COALESCE(NULLIF(EXCLUDED.photo_url, ''), users.photo_url),
			is_verified = EXCLUDED.is_verified,
			updated_at = EXCLUDED.updated_at`

	ctx, end := database.TraceQuery(ctx, "UpsertUser", query)
	defer func() { end(err) }()

	now := r.now()
	if _, err = r.db.Exec(ctx, query, u.ID, u.Name, u.Email, u.PhotoURL, u.IsVerified, now); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// RecordLogin upserts a verified profile and stamps last_login_at.
func (r *UserRepository) RecordLogin(ctx context.Context, u *domain.User) (err error) {
	query := `
		INSERT INTO users (id, name, email, photo_url, is_verified, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $5, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			photo_url = COALESCE(NULLIF(EXCLUDED.photo_url, ''), users.photo_url),
			is_verified = TRUE,
			last_login_at = EXCLUDED.last_login_at,
			updated_at = EXCLUDED.updated_at`

	ctx, end := database.TraceQuery(ctx, "RecordLogin", query)
	defer func() { end(err) }()

	now := r.now()
	if _, err = r.db.Exec(ctx, query, u.ID, u.Name, u.Email, u.PhotoURL, now); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by user ID.
func (r *UserRepository) GetProfile(ctx context.Context, id string) (_ *domain.Profile, err error) {
	query := `
		SELECT id, name, email, photo_url, is_verified, created_at, updated_at, last_login_at,
		       google_tokens IS NOT NULL
		FROM users
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetProfile", query)
	defer func() { end(err) }()

	var p domain.Profile
	err = r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.PhotoURL,
		&p.IsVerified,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.LastLoginAt,
		&p.IsGoogleConnected,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}

// Update applies the non-empty fields of upd.
func (r *UserRepository) Update(ctx context.Context, id string, upd domain.ProfileUpdate) (err error) {
	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($1, ''), name),
		    email = COALESCE(NULLIF($2, ''), email),
		    updated_at = $3
		WHERE id = $4`

	ctx, end := database.TraceQuery(ctx, "UpdateUser", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, upd.Name, upd.Email, r.now(), id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}

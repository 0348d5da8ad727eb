package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/pkg/database"
	apperrors "github.com/utafrali/mailer/pkg/errors"
)

// ContactRepository implements repository.ContactRepository using PostgreSQL.
type ContactRepository struct {
	db  database.DBTX
	now func() time.Time
}

// NewContactRepository creates a new PostgreSQL-backed contact repository.
func NewContactRepository(db database.DBTX) *ContactRepository {
	return &ContactRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new contact.
func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) (err error) {
	query := `
		INSERT INTO contacts (id, user_id, name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := database.TraceQuery(ctx, "CreateContact", query)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, query, c.ID, c.UserID, c.Name, c.Email, c.CreatedAt, c.UpdatedAt); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// ListByUser returns the user's contacts ordered by name.
func (r *ContactRepository) ListByUser(ctx context.Context, userID string) (_ []domain.Contact, err error) {
	query := `
		SELECT id, user_id, name, email, created_at, updated_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY name, created_at`

	ctx, end := database.TraceQuery(ctx, "ListContacts", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		var c domain.Contact
		if err = rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// Update replaces name and email of a contact owned by c.UserID.
func (r *ContactRepository) Update(ctx context.Context, c *domain.Contact) (err error) {
	query := `
		UPDATE contacts
		SET name = $1, email = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
		RETURNING created_at`

	ctx, end := database.TraceQuery(ctx, "UpdateContact", query)
	defer func() { end(err) }()

	c.UpdatedAt = r.now()
	err = r.db.QueryRow(ctx, query, c.Name, c.Email, c.UpdatedAt, c.ID, c.UserID).Scan(&c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return apperrors.NotFound("contact", c.ID)
		}
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// Delete removes a contact owned by userID. Group membership rows cascade.
func (r *ContactRepository) Delete(ctx context.Context, userID, id string) (err error) {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteContact", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("contact", id)
	}
	return nil
}

// CountOwned returns how many of ids are contacts of userID.
func (r *ContactRepository) CountOwned(ctx context.Context, userID string, ids []string) (_ int, err error) {
	query := `SELECT COUNT(*) FROM contacts WHERE user_id = $1 AND id = ANY($2)`

	ctx, end := database.TraceQuery(ctx, "CountOwnedContacts", query)
	defer func() { end(err) }()

	var n int
	if err = r.db.QueryRow(ctx, query, userID, ids).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

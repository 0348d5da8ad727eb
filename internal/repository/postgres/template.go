package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/pkg/database"
	apperrors "github.com/utafrali/mailer/pkg/errors"
)

// TemplateRepository implements repository.TemplateRepository using PostgreSQL.
type TemplateRepository struct {
	db  database.DBTX
	now func() time.Time
}

// NewTemplateRepository creates a new PostgreSQL-backed template repository.
func NewTemplateRepository(db database.DBTX) *TemplateRepository {
	return &TemplateRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new template.
func (r *TemplateRepository) Create(ctx context.Context, t *domain.Template) (err error) {
	query := `
		INSERT INTO templates (id, user_id, name, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := database.TraceQuery(ctx, "CreateTemplate", query)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, query, t.ID, t.UserID, t.Name, t.Content, t.CreatedAt, t.UpdatedAt); err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// ListByUser returns the user's templates, most recently updated first.
func (r *TemplateRepository) ListByUser(ctx context.Context, userID string) (_ []domain.Template, err error) {
	query := `
		SELECT id, user_id, name, content, created_at, updated_at
		FROM templates
		WHERE user_id = $1
		ORDER BY updated_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListTemplates", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := make([]domain.Template, 0)
	for rows.Next() {
		var t domain.Template
		if err = rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Content, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return templates, nil
}

// Update replaces name and content of a template owned by t.UserID.
func (r *TemplateRepository) Update(ctx context.Context, t *domain.Template) (err error) {
	query := `
		UPDATE templates
		SET name = $1, content = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
		RETURNING created_at`

	ctx, end := database.TraceQuery(ctx, "UpdateTemplate", query)
	defer func() { end(err) }()

	t.UpdatedAt = r.now()
	err = r.db.QueryRow(ctx, query, t.Name, t.Content, t.UpdatedAt, t.ID, t.UserID).Scan(&t.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return apperrors.NotFound("template", t.ID)
		}
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes a template owned by userID.
func (r *TemplateRepository) Delete(ctx context.Context, userID, id string) (err error) {
	query := `DELETE FROM templates WHERE id = $1 AND user_id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteTemplate", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("template", id)
	}
	return nil
}

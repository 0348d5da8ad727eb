package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/internal/repository"
)

// TemplateService implements owner-scoped message templates.
type TemplateService struct {
	repo   repository.TemplateRepository
	logger *slog.Logger
}

// NewTemplateService creates a new template service.
func NewTemplateService(repo repository.TemplateRepository, logger *slog.Logger) *TemplateService {
	return &TemplateService{repo: repo, logger: logger}
}

// TemplateInput holds the editable fields of a template.
type TemplateInput struct {
	Name    string
	Content string
}

// Create stores a new template.
func (s *TemplateService) Create(ctx context.Context, userID string, in TemplateInput) (*domain.Template, error) {
	if in.Name == "" {
		return nil, domain.InvalidRequest("Template name is required")
	}

	now := time.Now().UTC()
	t := &domain.Template{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "template created", slog.String("template_id", t.ID))
	return t, nil
}

// List returns the user's templates.
func (s *TemplateService) List(ctx context.Context, userID string) ([]domain.Template, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update replaces a template's name and content.
func (s *TemplateService) Update(ctx context.Context, userID, id string, in TemplateInput) (*domain.Template, error) {
	if in.Name == "" {
		return nil, domain.InvalidRequest("Template name is required")
	}

	t := &domain.Template{ID: id, UserID: userID, Name: in.Name, Content: in.Content}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a template.
func (s *TemplateService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

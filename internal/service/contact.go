package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/internal/repository"
)

// ContactService implements owner-scoped contact management.
type ContactService struct {
	repo   repository.ContactRepository
	logger *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository, logger *slog.Logger) *ContactService {
	return &ContactService{repo: repo, logger: logger}
}

// ContactInput holds the editable fields of a contact.
type ContactInput struct {
	Name  string
	Email string
}

// Create adds a contact for userID.
func (s *ContactService) Create(ctx context.Context, userID string, in ContactInput) (*domain.Contact, error) {
	if in.Name == "" || in.Email == "" {
		return nil, domain.InvalidRequest("Name and email are required.")
	}

	now := time.Now().UTC()
	c := &domain.Contact{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "contact created", slog.String("contact_id", c.ID))
	return c, nil
}

// List returns the user's contacts.
func (s *ContactService) List(ctx context.Context, userID string) ([]domain.Contact, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update replaces a contact's name and email.
func (s *ContactService) Update(ctx context.Context, userID, id string, in ContactInput) (*domain.Contact, error) {
	if in.Name == "" || in.Email == "" {
		return nil, domain.InvalidRequest("Name and email are required.")
	}

	c := &domain.Contact{ID: id, UserID: userID, Name: in.Name, Email: in.Email}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a contact.
func (s *ContactService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "contact deleted", slog.String("contact_id", id))
	return nil
}

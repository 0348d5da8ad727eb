package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/internal/repository"
	apperrors "github.com/utafrali/mailer/pkg/errors"
)

// GroupService implements contact groups. Membership only ever references
// the owner's contacts.
type GroupService struct {
	groups   repository.GroupRepository
	contacts repository.ContactRepository
	logger   *slog.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(groups repository.GroupRepository, contacts repository.ContactRepository, logger *slog.Logger) *GroupService {
	return &GroupService{groups: groups, contacts: contacts, logger: logger}
}

// GroupInput holds the editable fields of a group. A nil ContactIDs leaves
// membership unchanged on update.
type GroupInput struct {
	Name        string
	Description string
	ContactIDs  []string
}

// Create adds an empty group.
func (s *GroupService) Create(ctx context.Context, userID string, in GroupInput) (*domain.Group, error) {
	if in.Name == "" {
		return nil, domain.InvalidRequest("Group name is required")
	}

	now := time.Now().UTC()
	g := &domain.Group{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Contacts:    []domain.Contact{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.groups.Create(ctx, g); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "group created", slog.String("group_id", g.ID))
	return g, nil
}

// List returns the user's groups with their members.
func (s *GroupService) List(ctx context.Context, userID string) ([]domain.Group, error) {
	return s.groups.ListByUser(ctx, userID)
}

// Get returns one group with its members.
func (s *GroupService) Get(ctx context.Context, userID, id string) (*domain.Group, error) {
	return s.groups.GetByID(ctx, userID, id)
}

// Update renames a group and, when in.ContactIDs is non-nil, replaces its
// membership.
func (s *GroupService) Update(ctx context.Context, userID, id string, in GroupInput) error {
	if in.Name == "" {
		return domain.InvalidRequest("Group name is required")
	}

	upd := domain.GroupUpdate{Name: in.Name, Description: in.Description}
	if in.ContactIDs != nil {
		upd.ContactIDs = domain.UniqueIDs(in.ContactIDs)
		if err := s.ensureOwnedContacts(ctx, userID, upd.ContactIDs); err != nil {
			return err
		}
	}
	return s.groups.Update(ctx, userID, id, upd)
}

// Delete removes a group and its membership.
func (s *GroupService) Delete(ctx context.Context, userID, id string) error {
	if err := s.groups.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "group deleted", slog.String("group_id", id))
	return nil
}

// AddContacts adds the given contacts to a group.
func (s *GroupService) AddContacts(ctx context.Context, userID, groupID string, contactIDs []string) error {
	ids := domain.UniqueIDs(contactIDs)
	if len(ids) == 0 {
		return domain.InvalidRequest("Invalid or empty contact list")
	}
	if err := s.ensureOwnedContacts(ctx, userID, ids); err != nil {
		return err
	}
	return s.groups.AddContacts(ctx, userID, groupID, ids)
}

// RemoveContacts removes the given contacts from a group.
func (s *GroupService) RemoveContacts(ctx context.Context, userID, groupID string, contactIDs []string) error {
	ids := domain.UniqueIDs(contactIDs)
	if len(ids) == 0 {
		return domain.InvalidRequest("Invalid or empty contact list")
	}
	return s.groups.RemoveContacts(ctx, userID, groupID, ids)
}

// ListContacts returns the members of a group.
func (s *GroupService) ListContacts(ctx context.Context, userID, groupID string) ([]domain.Contact, error) {
	return s.groups.ListContacts(ctx, userID, groupID)
}

func (s *GroupService) ensureOwnedContacts(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.contacts.CountOwned(ctx, userID, ids)
	if err != nil {
		return err
	}
	if n != len(ids) {
		return apperrors.New("NOT_FOUND", "One or more contacts not found", http.StatusNotFound, apperrors.ErrNotFound)
	}
	return nil
}

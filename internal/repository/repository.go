package repository

import (
	"context"

	"github.com/utafrali/mailer/internal/domain"
)

// UserRepository defines the interface for profile persistence operations.
type UserRepository interface {
	// Upsert creates the profile or merges the non-empty fields of u into the
	// existing one.
	Upsert(ctx context.Context, u *domain.User) error

	// RecordLogin upserts the profile from identity-provider data, marking it
	// verified and stamping the last login time.
	RecordLogin(ctx context.Context, u *domain.User) error

	// GetProfile returns the profile together with its Google connection flag.
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)

	// Update applies the non-empty fields of upd to an existing profile.
	Update(ctx context.Context, id string, upd domain.ProfileUpdate) error
}

// CredentialStore persists the delegated Google credential of each user.
type CredentialStore interface {
	// Get returns the stored bundle, or nil when the user never connected.
	Get(ctx context.Context, userID string) (*domain.Credential, error)

	// Save overwrites any previous bundle. Concurrent saves are last write wins.
	Save(ctx context.Context, userID string, cred *domain.Credential) error

	// Clear removes the bundle.
	Clear(ctx context.Context, userID string) error
}

// ContactRepository defines the interface for contact persistence operations.
// Every method is scoped to the owning user.
type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) error
	ListByUser(ctx context.Context, userID string) ([]domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, userID, id string) error

	// CountOwned returns how many of ids belong to userID.
	CountOwned(ctx context.Context, userID string, ids []string) (int, error)
}

// GroupRepository defines the interface for contact group persistence.
// Reads embed the member contacts.
type GroupRepository interface {
	Create(ctx context.Context, g *domain.Group) error
	ListByUser(ctx context.Context, userID string) ([]domain.Group, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Group, error)

	// Update replaces name and description, and membership when
	// upd.ContactIDs is non-nil, in one transaction.
	Update(ctx context.Context, userID, id string, upd domain.GroupUpdate) error

	// Delete removes the group and its membership rows.
	Delete(ctx context.Context, userID, id string) error

	AddContacts(ctx context.Context, userID, groupID string, contactIDs []string) error
	RemoveContacts(ctx context.Context, userID, groupID string, contactIDs []string) error
	ListContacts(ctx context.Context, userID, groupID string) ([]domain.Contact, error)
}

// TemplateRepository defines the interface for template persistence.
type TemplateRepository interface {
	Create(ctx context.Context, t *domain.Template) error
	ListByUser(ctx context.Context, userID string) ([]domain.Template, error)
	Update(ctx context.Context, t *domain.Template) error
	Delete(ctx context.Context, userID, id string) error
}

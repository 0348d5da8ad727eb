package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/utafrali/mailer/internal/domain"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Upsert(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) RecordLogin(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, id string, upd domain.ProfileUpdate) error {
	return m.Called(ctx, id, upd).Error(0)
}

type mockCredentialStore struct {
	mock.Mock
}

func (m *mockCredentialStore) Get(ctx context.Context, userID string) (*domain.Credential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

func (m *mockCredentialStore) Save(ctx context.Context, userID string, cred *domain.Credential) error {
	return m.Called(ctx, userID, cred).Error(0)
}

func (m *mockCredentialStore) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockContactRepo) ListByUser(ctx context.Context, userID string) ([]domain.Contact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *mockContactRepo) Update(ctx context.Context, c *domain.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockContactRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockContactRepo) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	args := m.Called(ctx, userID, ids)
	return args.Int(0), args.Error(1)
}

type mockGroupRepo struct {
	mock.Mock
}

func (m *mockGroupRepo) Create(ctx context.Context, g *domain.Group) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockGroupRepo) ListByUser(ctx context.Context, userID string) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *mockGroupRepo) GetByID(ctx context.Context, userID, id string) (*domain.Group, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *mockGroupRepo) Update(ctx context.Context, userID, id string, upd domain.GroupUpdate) error {
	return m.Called(ctx, userID, id, upd).Error(0)
}

func (m *mockGroupRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockGroupRepo) AddContacts(ctx context.Context, userID, groupID string, ids []string) error {
	return m.Called(ctx, userID, groupID, ids).Error(0)
}

func (m *mockGroupRepo) RemoveContacts(ctx context.Context, userID, groupID string, ids []string) error {
	return m.Called(ctx, userID, groupID, ids).Error(0)
}

func (m *mockGroupRepo) ListContacts(ctx context.Context, userID, groupID string) ([]domain.Contact, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

type mockTemplateRepo struct {
	mock.Mock
}

func (m *mockTemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTemplateRepo) ListByUser(ctx context.Context, userID string) ([]domain.Template, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Template), args.Error(1)
}

func (m *mockTemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTemplateRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

// ============================================================================
// Mock Google
// ============================================================================

type mockOAuth struct {
	mock.Mock
}

func (m *mockOAuth) AuthCodeURL(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *mockOAuth) Exchange(ctx context.Context, code string) (*domain.Credential, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

func (m *mockOAuth) TokenSource(ctx context.Context, cred *domain.Credential) oauth2.TokenSource {
	return m.Called(ctx, cred).Get(0).(oauth2.TokenSource)
}

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, ts oauth2.TokenSource, raw string) (string, error) {
	args := m.Called(ctx, ts, raw)
	return args.String(0), args.Error(1)
}

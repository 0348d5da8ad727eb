package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/utafrali/mailer/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Mock Credential Store ---

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
	args := m.Called(ctx, userID, cred)
	return args.Error(0)
}

func (m *mockCredentialStore) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock State Tokens ---

type mockStateTokens struct {
	mock.Mock
}

func (m *mockStateTokens) Issue(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *mockStateTokens) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// --- Mock OAuth Provider ---

type mockOAuthProvider struct {
	mock.Mock
}

func (m *mockOAuthProvider) AuthCodeURL(state string) (string, error) {
	args := m.Called(state)
	return args.String(0), args.Error(1)
}

func (m *mockOAuthProvider) Exchange(ctx context.Context, code string) (*domain.Credential, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Credential), args.Error(1)
}

func (m *mockOAuthProvider) TokenSource(ctx context.Context, cred *domain.Credential) oauth2.TokenSource {
	args := m.Called(ctx, cred)
	return args.Get(0).(oauth2.TokenSource)
}

type errTokenSource struct{ err error }

func (s errTokenSource) Token() (*oauth2.Token, error) { return nil, s.err }

// --- Mock Message Sender ---

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, ts oauth2.TokenSource, raw string) (string, error) {
	args := m.Called(ctx, ts, raw)
	return args.String(0), args.Error(1)
}

// --- Mock Event Publisher ---

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishGoogleConnected(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockEvents) PublishGoogleDisconnected(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockEvents) PublishEmailSent(ctx context.Context, userID, messageID string, recipients int) error {
	return m.Called(ctx, userID, messageID, recipients).Error(0)
}

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Upsert(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepository) RecordLogin(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, id string, upd domain.ProfileUpdate) error {
	return m.Called(ctx, id, upd).Error(0)
}

// --- Mock Contact Repository ---

type mockContactRepository struct {
	mock.Mock
}

func (m *mockContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockContactRepository) ListByUser(ctx context.Context, userID string) ([]domain.Contact, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *mockContactRepository) Update(ctx context.Context, c *domain.Contact) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockContactRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockContactRepository) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	args := m.Called(ctx, userID, ids)
	return args.Int(0), args.Error(1)
}

// --- Mock Group Repository ---

type mockGroupRepository struct {
	mock.Mock
}

func (m *mockGroupRepository) Create(ctx context.Context, g *domain.Group) error {
	return m.Called(ctx, g).Error(0)
}

func (m *mockGroupRepository) ListByUser(ctx context.Context, userID string) ([]domain.Group, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *mockGroupRepository) GetByID(ctx context.Context, userID, id string) (*domain.Group, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *mockGroupRepository) Update(ctx context.Context, userID, id string, upd domain.GroupUpdate) error {
	return m.Called(ctx, userID, id, upd).Error(0)
}

func (m *mockGroupRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockGroupRepository) AddContacts(ctx context.Context, userID, groupID string, contactIDs []string) error {
	return m.Called(ctx, userID, groupID, contactIDs).Error(0)
}

func (m *mockGroupRepository) RemoveContacts(ctx context.Context, userID, groupID string, contactIDs []string) error {
	return m.Called(ctx, userID, groupID, contactIDs).Error(0)
}

func (m *mockGroupRepository) ListContacts(ctx context.Context, userID, groupID string) ([]domain.Contact, error) {
	args := m.Called(ctx, userID, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

// --- Mock Template Repository ---

type mockTemplateRepository struct {
	mock.Mock
}

func (m *mockTemplateRepository) Create(ctx context.Context, t *domain.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTemplateRepository) ListByUser(ctx context.Context, userID string) ([]domain.Template, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Template), args.Error(1)
}

func (m *mockTemplateRepository) Update(ctx context.Context, t *domain.Template) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockTemplateRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

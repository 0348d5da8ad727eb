package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/internal/repository"
)

// ProfileService manages the user's profile record.
type ProfileService struct {
	users   repository.UserRepository
	connect *ConnectService
	logger  *slog.Logger
}

// NewProfileService creates a new profile service. Disconnecting Google is
// delegated to connect.
func NewProfileService(users repository.UserRepository, connect *ConnectService, logger *slog.Logger) *ProfileService {
	return &ProfileService{users: users, connect: connect, logger: logger}
}

// Signup creates or merges an unverified profile.
func (s *ProfileService) Signup(ctx context.Context, userID, name, email string) error {
	u := &domain.User{ID: userID, Name: name, Email: email}
	if err := s.users.Upsert(ctx, u); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	s.logger.InfoContext(ctx, "user profile created", slog.String("user_id", userID))
	return nil
}

// SyncGoogleLogin creates or merges a verified profile after a Google
// sign-in and records the login time.
func (s *ProfileService) SyncGoogleLogin(ctx context.Context, userID, name, email, photoURL string) error {
	u := &domain.User{ID: userID, Name: name, Email: email, PhotoURL: photoURL, IsVerified: true}
	if err := s.users.RecordLogin(ctx, u); err != nil {
		return fmt.Errorf("sync google login: %w", err)
	}
	s.logger.InfoContext(ctx, "user google login synced", slog.String("user_id", userID))
	return nil
}

// GetProfile returns the profile with its Google connection flag.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.users.GetProfile(ctx, userID)
}

// UpdateProfile applies the non-empty fields of upd. An empty update still
// reports a missing profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) error {
	if upd.IsEmpty() {
		_, err := s.users.GetProfile(ctx, userID)
		return err
	}
	return s.users.Update(ctx, userID, upd)
}

// DisconnectGoogle removes the stored Google credential.
func (s *ProfileService) DisconnectGoogle(ctx context.Context, userID string) error {
	return s.connect.Disconnect(ctx, userID)
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/internal/repository"
)

// ConnectService runs the Google authorization handshake: it binds a consent
// redirect to the requesting user and stores the credential returned by the
// callback.
type ConnectService struct {
	state  StateTokens
	oauth  OAuthProvider
	store  repository.CredentialStore
	events EventPublisher
	logger *slog.Logger
}

// NewConnectService creates a new connect service.
func NewConnectService(
	state StateTokens,
	oauth OAuthProvider,
	store repository.CredentialStore,
	events EventPublisher,
	logger *slog.Logger,
) *ConnectService {
	return &ConnectService{
		state:  state,
		oauth:  oauth,
		store:  store,
		events: events,
		logger: logger,
	}
}

// InitiateAuthorization returns the consent URL carrying a signed state
// token for userID.
func (s *ConnectService) InitiateAuthorization(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", domain.Unauthorized()
	}

	state, err := s.state.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue state: %w", err)
	}

	authURL, err := s.oauth.AuthCodeURL(state)
	if err != nil {
		return "", fmt.Errorf("build consent url: %w", err)
	}

	s.logger.InfoContext(ctx, "google authorization initiated", slog.String("user_id", userID))
	return authURL, nil
}

// ResolveRequester determines who started the handshake. A present state
// token is authoritative: if it fails verification the cookie is not
// consulted.
func (s *ConnectService) ResolveRequester(state, cookieUserID string) (string, error) {
	if state != "" {
		userID, err := s.state.Verify(state)
		if err != nil {
			return "", domain.InvalidState()
		}
		return userID, nil
	}
	if cookieUserID != "" {
		return cookieUserID, nil
	}
	return "", domain.UnresolvedIdentity()
}

// HandleCallback completes the handshake and returns the connected user ID.
// The code is checked before any identity work and exchanged exactly once.
func (s *ConnectService) HandleCallback(ctx context.Context, code, state, cookieUserID string) (string, error) {
	if code == "" {
		return "", domain.MissingCode()
	}

	userID, err := s.ResolveRequester(state, cookieUserID)
	if err != nil {
		s.logger.WarnContext(ctx, "google callback rejected",
			slog.Bool("state_present", state != ""),
			slog.Bool("cookie_present", cookieUserID != ""),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	cred, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.ErrorContext(ctx, "authorization code exchange failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return "", domain.ExchangeFailed(err)
	}
	if !cred.CanRefresh() {
		s.logger.WarnContext(ctx, "google returned no refresh token", slog.String("user_id", userID))
	}

	if err := s.store.Save(ctx, userID, cred); err != nil {
		return "", fmt.Errorf("save credential: %w", err)
	}

	if err := s.events.PublishGoogleConnected(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish google.connected event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "google account connected", slog.String("user_id", userID))
	return userID, nil
}

// Disconnect removes the stored credential.
func (s *ConnectService) Disconnect(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.Unauthorized()
	}
	if err := s.store.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}

	if err := s.events.PublishGoogleDisconnected(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish google.disconnected event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "google account disconnected", slog.String("user_id", userID))
	return nil
}

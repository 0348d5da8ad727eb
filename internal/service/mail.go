package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/internal/google"
	"github.com/utafrali/mailer/internal/repository"
)

// SendInput holds the parameters of an outgoing message.
type SendInput struct {
	Subject    string
	Body       string
	Recipients []string
}

// MailService refreshes delegated credentials on demand and sends mail
// through Gmail. Each call builds its own token source; nothing is shared
// between requests.
type MailService struct {
	oauth  OAuthProvider
	sender MessageSender
	store  repository.CredentialStore
	events EventPublisher
	logger *slog.Logger
}

// NewMailService creates a new mail service.
func NewMailService(
	oauth OAuthProvider,
	sender MessageSender,
	store repository.CredentialStore,
	events EventPublisher,
	logger *slog.Logger,
) *MailService {
	return &MailService{
		oauth:  oauth,
		sender: sender,
		store:  store,
		events: events,
		logger: logger,
	}
}

// EnsureFreshCredential loads the user's credential and refreshes it if the
// access token has expired. A refreshed credential is written back; a failed
// write is logged and does not fail the call.
func (s *MailService) EnsureFreshCredential(ctx context.Context, userID string) (*domain.Credential, error) {
	stored, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	if stored == nil {
		return nil, domain.NotConnected()
	}

	tok, err := s.oauth.TokenSource(ctx, stored).Token()
	if err != nil {
		s.logger.WarnContext(ctx, "google credential refresh failed",
			slog.String("user_id", userID),
			slog.Bool("invalid_grant", google.IsInvalidGrant(err)),
			slog.Bool("has_refresh_token", stored.CanRefresh()),
		)
		return nil, domain.CredentialInvalid(err)
	}

	fresh := stored.Merge(google.CredentialFromToken(tok))
	if !fresh.SameTokens(stored) {
		if err := s.store.Save(ctx, userID, fresh); err != nil {
			s.logger.ErrorContext(ctx, "failed to persist refreshed credential",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		} else {
			s.logger.DebugContext(ctx, "refreshed google credential persisted", slog.String("user_id", userID))
		}
	}
	return fresh, nil
}

// SendMessage sends one plain-text message to recipients and returns the
// provider's message ID.
func (s *MailService) SendMessage(ctx context.Context, userID string, in SendInput) (string, error) {
	if err := validateSendInput(in); err != nil {
		return "", err
	}

	cred, err := s.EnsureFreshCredential(ctx, userID)
	if err != nil {
		return "", err
	}

	raw := google.EncodeMessage(google.BuildMessage(in.Recipients, in.Subject, in.Body))
	messageID, err := s.sender.Send(ctx, s.oauth.TokenSource(ctx, cred), raw)
	if err != nil {
		s.logger.ErrorContext(ctx, "gmail send failed",
			slog.String("user_id", userID),
			slog.Int("recipient_count", len(in.Recipients)),
			slog.String("error", err.Error()),
		)
		return "", domain.SendFailed(err).WithDetail(google.ProviderDetail(err))
	}

	if err := s.events.PublishEmailSent(ctx, userID, messageID, len(in.Recipients)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish email.sent event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "email sent",
		slog.String("user_id", userID),
		slog.String("message_id", messageID),
		slog.Int("recipient_count", len(in.Recipients)),
	)
	return messageID, nil
}

func validateSendInput(in SendInput) error {
	if strings.TrimSpace(in.Subject) == "" || in.Body == "" || len(in.Recipients) == 0 {
		return domain.InvalidRequest("Subject, body, and recipients are required.")
	}
	for _, r := range in.Recipients {
		if strings.TrimSpace(r) == "" {
			return domain.InvalidRequest("Recipients must not be empty.")
		}
	}
	return nil
}

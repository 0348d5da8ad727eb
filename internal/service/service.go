package service

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/utafrali/mailer/internal/domain"
)

// EventPublisher publishes domain events. Failures are logged by callers and
// never fail the operation that produced the event.
type EventPublisher interface {
	PublishGoogleConnected(ctx context.Context, userID string) error
	PublishGoogleDisconnected(ctx context.Context, userID string) error
	PublishEmailSent(ctx context.Context, userID, messageID string, recipients int) error
}

// StateTokens mints and verifies OAuth state tokens.
type StateTokens interface {
	Issue(userID string) (string, error)
	Verify(token string) (string, error)
}

// OAuthProvider is the delegated-authorization side of Google.
type OAuthProvider interface {
	AuthCodeURL(state string) (string, error)
	Exchange(ctx context.Context, code string) (*domain.Credential, error)
	TokenSource(ctx context.Context, cred *domain.Credential) oauth2.TokenSource
}

// MessageSender dispatches an encoded message using the given token source.
type MessageSender interface {
	Send(ctx context.Context, ts oauth2.TokenSource, raw string) (string, error)
}

package google

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Mailer sends raw messages through the Gmail API.
type Mailer struct {
	httpClient *http.Client
	endpoint   string
}

// NewMailer creates a Mailer. endpoint overrides the Gmail base URL and is
// empty in production.
func NewMailer(httpClient *http.Client, endpoint string) *Mailer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Mailer{httpClient: httpClient, endpoint: endpoint}
}

// Send dispatches one encoded message as the token's owner and returns the
// Gmail message ID. Failures are returned as-is and never retried.
func (m *Mailer) Send(ctx context.Context, ts oauth2.TokenSource, raw string) (string, error) {
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, m.httpClient), ts)

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if m.endpoint != "" {
		opts = append(opts, option.WithEndpoint(m.endpoint))
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("create gmail service: %w", err)
	}

	start := time.Now()
	msg, err := svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	observe("send", start, err)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return msg.Id, nil
}

package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"

	"github.com/utafrali/mailer/internal/domain"
)

// SendScope is the only scope requested from the user.
const SendScope = gmail.GmailSendScope

// OAuthConfig holds the registered OAuth client. AuthURL and TokenURL
// default to Google's endpoints.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
}

// OAuthClient builds consent URLs, exchanges codes and produces token sources.
type OAuthClient struct {
	cfg        *oauth2.Config
	httpClient *http.Client
}

// NewOAuthClient creates a client. httpClient is used for every call to the
// token endpoint; nil means http.DefaultClient.
func NewOAuthClient(cfg OAuthConfig, httpClient *http.Client) *OAuthClient {
	endpoint := googleoauth.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OAuthClient{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{SendScope},
		},
		httpClient: httpClient,
	}
}

// AuthCodeURL returns the consent URL for state. It always requests offline
// access with a forced consent prompt so Google reissues a refresh token.
func (c *OAuthClient) AuthCodeURL(state string) (string, error) {
	raw := c.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return ensureState(raw, state)
}

// ensureState appends state to the consent URL when the generated URL lacks
// it.
func ensureState(raw, state string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse consent url: %w", err)
	}
	q := u.Query()
	if q.Get("state") != "" {
		return raw, nil
	}
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Exchange trades an authorization code for a credential. It is never
// retried: codes are single-use.
func (c *OAuthClient) Exchange(ctx context.Context, code string) (*domain.Credential, error) {
	start := time.Now()
	tok, err := c.cfg.Exchange(c.withClient(ctx), code)
	observe("exchange", start, err)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return CredentialFromToken(tok), nil
}

// TokenSource returns a fresh token source for cred. Token() refreshes
// synchronously when the access token has expired.
func (c *OAuthClient) TokenSource(ctx context.Context, cred *domain.Credential) oauth2.TokenSource {
	return &observedSource{
		src:     c.cfg.TokenSource(c.withClient(ctx), tokenFromCredential(cred)),
		initial: cred.AccessToken,
	}
}

func (c *OAuthClient) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// observedSource counts refreshes. A token whose access value differs from
// the stored one came from the token endpoint.
type observedSource struct {
	src     oauth2.TokenSource
	initial string
}

func (s *observedSource) Token() (*oauth2.Token, error) {
	start := time.Now()
	tok, err := s.src.Token()
	if err != nil || tok.AccessToken != s.initial {
		observe("refresh", start, err)
	}
	return tok, err
}

func tokenFromCredential(c *domain.Credential) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

// CredentialFromToken converts an OAuth2 token into the stored form.
func CredentialFromToken(tok *oauth2.Token) *domain.Credential {
	cred := &domain.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		cred.Scope = scope
	}
	return cred
}

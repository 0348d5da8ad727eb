package domain

import "time"

// Credential is the delegated Google OAuth2 bundle stored per user. It is
// persisted as an opaque JSON document and never returned to clients.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scope        string    `json:"scope,omitempty"`
}

// CanRefresh reports whether the bundle holds a refresh token.
func (c *Credential) CanRefresh() bool {
	return c != nil && c.RefreshToken != ""
}

// Merge returns next, keeping the current refresh token when the provider
// did not issue a new one. Google rotates refresh tokens only occasionally.
func (c *Credential) Merge(next *Credential) *Credential {
	merged := *next
	if merged.RefreshToken == "" && c != nil {
		merged.RefreshToken = c.RefreshToken
	}
	if merged.Scope == "" && c != nil {
		merged.Scope = c.Scope
	}
	return &merged
}

// SameTokens reports whether both bundles carry the same access and refresh
// tokens.
func (c *Credential) SameTokens(other *Credential) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.AccessToken == other.AccessToken && c.RefreshToken == other.RefreshToken
}

// Package google wraps the Google OAuth2 and Gmail APIs used to send mail on a
// user's behalf. Nothing here holds per-user state: every call builds its own
// token source and API client from the shared, immutable configuration.
package google

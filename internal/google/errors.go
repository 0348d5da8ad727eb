package google

import (
	"errors"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// ProviderDetail extracts the human-readable part of a Google error. It
// falls back to the full error text.
func ProviderDetail(err error) string {
	if err == nil {
		return ""
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return gerr.Message
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		if rerr.ErrorDescription != "" {
			return rerr.ErrorDescription
		}
		if rerr.ErrorCode != "" {
			return rerr.ErrorCode
		}
	}
	return err.Error()
}

// IsInvalidGrant reports whether the token endpoint rejected a code or
// refresh token as revoked, expired or already used.
func IsInvalidGrant(err error) bool {
	var rerr *oauth2.RetrieveError
	return errors.As(err, &rerr) && rerr.ErrorCode == "invalid_grant"
}

package domain

import (
	"errors"
	"net/http"

	apperrors "github.com/utafrali/mailer/pkg/errors"
)

// Sentinels for the delegated-mail flow. Each constructor below wraps one so
// callers can match with errors.Is.
var (
	ErrInvalidState       = errors.New("invalid oauth state")
	ErrUnresolvedIdentity = errors.New("requesting user could not be resolved")
	ErrMissingCode        = errors.New("authorization code missing")
	ErrNotConnected       = errors.New("google account not connected")
	ErrCredentialInvalid  = errors.New("stored credential rejected by provider")
	ErrExchangeFailed     = errors.New("authorization code exchange failed")
	ErrSendFailed         = errors.New("message send failed")
)

// Unauthorized is returned when no authenticated user is present.
func Unauthorized() *apperrors.AppError {
	return apperrors.Unauthorized("Unauthorized")
}

// InvalidState is returned when a state token is present but fails
// verification.
func InvalidState() *apperrors.AppError {
	return apperrors.New("INVALID_STATE", "Invalid or expired state parameter.", http.StatusBadRequest, ErrInvalidState)
}

// UnresolvedIdentity is returned when neither state nor cookie names a user.
func UnresolvedIdentity() *apperrors.AppError {
	return apperrors.New("UNRESOLVED_IDENTITY", "Unable to identify user. Please try again.", http.StatusUnauthorized, ErrUnresolvedIdentity)
}

// MissingCode is returned when the callback carries no authorization code.
func MissingCode() *apperrors.AppError {
	return apperrors.New("MISSING_CODE", "Authorization code is required.", http.StatusBadRequest, ErrMissingCode)
}

// InvalidRequest is returned for missing or malformed input.
func InvalidRequest(message string) *apperrors.AppError {
	return apperrors.InvalidInput(message)
}

// NotConnected is returned when the user has no stored credential.
func NotConnected() *apperrors.AppError {
	return apperrors.New("NOT_CONNECTED", "Google account not connected.", http.StatusUnauthorized, ErrNotConnected)
}

// CredentialInvalid is returned when the stored credential can no longer be
// refreshed. The user must reconnect.
func CredentialInvalid(cause error) *apperrors.AppError {
	e := apperrors.New("CREDENTIAL_INVALID", "Google authorization expired. Please reconnect your Google account.", http.StatusUnauthorized, ErrCredentialInvalid)
	if cause != nil {
		e.Err = errors.Join(ErrCredentialInvalid, cause)
	}
	return e
}

// ExchangeFailed is returned when the provider rejects the authorization code.
func ExchangeFailed(cause error) *apperrors.AppError {
	e := apperrors.Upstream("EXCHANGE_FAILED", "Failed to complete Google authorization.", cause)
	e.Err = errors.Join(ErrExchangeFailed, e.Err)
	e.Detail = ""
	return e
}

// SendFailed is returned when the provider rejects the message. The
// provider's error text is exposed as Detail.
func SendFailed(cause error) *apperrors.AppError {
	e := apperrors.Upstream("SEND_FAILED", "Failed to send email.", cause)
	e.Err = errors.Join(ErrSendFailed, e.Err)
	return e
}

package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/utafrali/mailer/pkg/errors"
	"github.com/utafrali/mailer/pkg/logger"
	"github.com/utafrali/mailer/pkg/validator"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Detail    string            `json:"detail,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// MessageResponse is the body of operations that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteMessage writes {"message": msg}.
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, MessageResponse{Message: msg})
}

// WriteError maps err to an ErrorResponse. AppErrors keep their code, status
// and detail. Anything unrecognised becomes a 500 and is logged with the
// request-scoped logger, or fallback when none is mounted.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	requestID := logger.RequestIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteValidationError(w, r, err)
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logError(r, err, fallback)
		}
		WriteJSON(w, appErr.Status, ErrorResponse{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Detail:    appErr.Detail,
			RequestID: requestID,
		})
		return
	}

	resp := ErrorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred", RequestID: requestID}
	status := apperrors.HTTPStatus(err)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		resp.Code, resp.Message = "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrAlreadyExists):
		resp.Code, resp.Message = "ALREADY_EXISTS", "resource already exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		resp.Code, resp.Message = "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		resp.Code, resp.Message = "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		resp.Code, resp.Message = "FORBIDDEN", "forbidden"
	default:
		status = http.StatusInternalServerError
		logError(r, err, fallback)
	}

	WriteJSON(w, status, resp)
}

func logError(r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}
	l.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
}

// WriteValidationError writes a 400. Field-level messages are included when
// err is a *validator.ValidationError.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logger.RequestIDFromContext(r.Context())

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:      "VALIDATION_ERROR",
			Message:   "request validation failed",
			Fields:    valErr.Fields(),
			RequestID: requestID,
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:      "INVALID_INPUT",
		Message:   err.Error(),
		RequestID: requestID,
	})
}

// ParseUUID parses a path parameter as a UUID. On failure it writes a 400
// and returns false so the caller can return early.
func ParseUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Code:      "INVALID_PARAMETER",
			Message:   "invalid id: " + param,
			RequestID: logger.RequestIDFromContext(r.Context()),
		})
		return uuid.Nil, false
	}
	return id, true
}

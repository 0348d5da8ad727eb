package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/mailer/internal/service"
	"github.com/utafrali/mailer/pkg/httputil"
	"github.com/utafrali/mailer/pkg/middleware"
	"github.com/utafrali/mailer/pkg/validator"
)

// MailHandler handles outgoing mail.
type MailHandler struct {
	service *service.MailService
	logger  *slog.Logger
}

// NewMailHandler creates a new mail HTTP handler.
func NewMailHandler(svc *service.MailService, logger *slog.Logger) *MailHandler {
	return &MailHandler{service: svc, logger: logger}
}

// SendEmailRequest is the JSON request body for sending a message. Presence
// checks are left to the service so the caller gets a single message.
type SendEmailRequest struct {
	Subject    string   `json:"subject" validate:"max=998"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients" validate:"max=100,dive,email"`
}

// Send handles POST /api/send-email
func (h *MailHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendEmailRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	_, err := h.service.SendMessage(r.Context(), middleware.UserIDFromContext(r.Context()), service.SendInput{
		Subject:    req.Subject,
		Body:       req.Body,
		Recipients: req.Recipients,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Email sent successfully!")
}

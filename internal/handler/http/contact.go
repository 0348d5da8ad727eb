package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/mailer/internal/service"
	"github.com/utafrali/mailer/pkg/httputil"
	"github.com/utafrali/mailer/pkg/middleware"
	"github.com/utafrali/mailer/pkg/validator"
)

// ContactHandler handles HTTP requests for contacts.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{service: svc, logger: logger}
}

// ContactRequest is the JSON request body for creating or updating a contact.
type ContactRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=320"`
}

// List handles GET /api/contacts
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.List(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, contacts)
}

// Create handles POST /api/contacts
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	contact, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), service.ContactInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, contact)
}

// Update handles PUT /api/contacts/{id} and POST /api/update-contact/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req ContactRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	contact, err := h.service.Update(r.Context(), middleware.UserIDFromContext(r.Context()), id.String(), service.ContactInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, contact)
}

// Delete handles DELETE /api/contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Contact deleted successfully")
}

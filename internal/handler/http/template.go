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

// TemplateHandler handles HTTP requests for message templates.
type TemplateHandler struct {
	service *service.TemplateService
	logger  *slog.Logger
}

// NewTemplateHandler creates a new template HTTP handler.
func NewTemplateHandler(svc *service.TemplateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{service: svc, logger: logger}
}

// TemplateRequest is the JSON request body for creating or updating a
// template.
type TemplateRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Content string `json:"content" validate:"max=100000"`
}

// List handles GET /api/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.List(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, templates)
}

// Create handles POST /api/templates
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TemplateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	tpl, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), service.TemplateInput{
		Name:    req.Name,
		Content: req.Content,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tpl)
}

// Update handles PUT /api/templates/{id}
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req TemplateRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	tpl, err := h.service.Update(r.Context(), middleware.UserIDFromContext(r.Context()), id.String(), service.TemplateInput{
		Name:    req.Name,
		Content: req.Content,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tpl)
}

// Delete handles DELETE /api/templates/{id}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Template deleted successfully")
}

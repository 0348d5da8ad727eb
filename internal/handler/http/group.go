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

// GroupHandler handles HTTP requests for contact groups.
type GroupHandler struct {
	service *service.GroupService
	logger  *slog.Logger
}

// NewGroupHandler creates a new group HTTP handler.
func NewGroupHandler(svc *service.GroupService, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateGroupRequest is the JSON request body for creating a group.
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateGroupRequest is the JSON request body for updating a group. An
// absent contactIds leaves membership unchanged; an empty array clears it.
type UpdateGroupRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	ContactIDs  []string `json:"contactIds" validate:"omitempty,dive,uuid"`
}

// GroupContactsRequest is the JSON request body for membership changes.
type GroupContactsRequest struct {
	ContactIDs []string `json:"contactIds" validate:"dive,uuid"`
}

// --- Handlers ---

// List handles GET /api/groups
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.service.List(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, groups)
}

// Create handles POST /api/groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	group, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), service.GroupInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, group)
}

// Get handles GET /api/groups/{groupId}
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "groupId"))
	if !ok {
		return
	}

	group, err := h.service.Get(r.Context(), middleware.UserIDFromContext(r.Context()), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, group)
}

// Update handles PUT /api/groups/{groupId}
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "groupId"))
	if !ok {
		return
	}

	var req UpdateGroupRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	err := h.service.Update(r.Context(), middleware.UserIDFromContext(r.Context()), id.String(), service.GroupInput{
		Name:        req.Name,
		Description: req.Description,
		ContactIDs:  req.ContactIDs,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Group updated successfully")
}

// Delete handles DELETE /api/groups/{groupId}
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "groupId"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Group deleted successfully")
}

// ListContacts handles GET /api/groups/{groupId}/contacts
func (h *GroupHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "groupId"))
	if !ok {
		return
	}

	contacts, err := h.service.ListContacts(r.Context(), middleware.UserIDFromContext(r.Context()), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, contacts)
}

// AddContacts handles POST /api/groups/{groupId}/contacts
func (h *GroupHandler) AddContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "groupId"))
	if !ok {
		return
	}

	var req GroupContactsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	if err := h.service.AddContacts(r.Context(), middleware.UserIDFromContext(r.Context()), id.String(), req.ContactIDs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Contacts added successfully")
}

// RemoveContacts handles DELETE /api/groups/{groupId}/contacts
func (h *GroupHandler) RemoveContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, r, chi.URLParam(r, "groupId"))
	if !ok {
		return
	}

	var req GroupContactsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	if err := h.service.RemoveContacts(r.Context(), middleware.UserIDFromContext(r.Context()), id.String(), req.ContactIDs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Contacts removed successfully")
}

package http

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/mailer/internal/domain"
	"github.com/utafrali/mailer/internal/service"
	"github.com/utafrali/mailer/pkg/httputil"
	"github.com/utafrali/mailer/pkg/middleware"
	"github.com/utafrali/mailer/pkg/validator"
)

// ProfileHandler handles HTTP requests for the caller's profile.
type ProfileHandler struct {
	service *service.ProfileService
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile HTTP handler.
func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// SignupRequest is the JSON request body for POST /api/signup. Empty fields
// fall back to the identity token's claims.
type SignupRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"omitempty,email"`
}

// GoogleLoginRequest is the JSON request body for POST /api/google-login.
type GoogleLoginRequest struct {
	Name     string `json:"name" validate:"max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url"`
}

// UpdateProfileRequest is the JSON request body for PUT /api/user/profile.
type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"max=200"`
	Email string `json:"email" validate:"omitempty,email"`
}

// --- Handlers ---

// Signup handles POST /api/signup
func (h *ProfileHandler) Signup(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req SignupRequest
	if err := decodeOptional(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	err := h.service.Signup(r.Context(), claims.UserID, orDefault(req.Name, claims.Name), orDefault(req.Email, claims.Email))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusCreated, "User profile created successfully.")
}

// GoogleLogin handles POST /api/google-login
func (h *ProfileHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req GoogleLoginRequest
	if err := decodeOptional(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	err := h.service.SyncGoogleLogin(r.Context(), claims.UserID,
		orDefault(req.Name, claims.Name),
		orDefault(req.Email, claims.Email),
		orDefault(req.PhotoURL, claims.Picture),
	)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "User logged in with Google successfully.")
}

// GetProfile handles GET /api/user/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/user/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	upd := domain.ProfileUpdate{Name: req.Name, Email: req.Email}
	if err := h.service.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), upd); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Profile updated successfully!")
}

// DisconnectGoogle handles DELETE /api/user/profile/google-connection
func (h *ProfileHandler) DisconnectGoogle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DisconnectGoogle(r.Context(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Google account disconnected successfully.")
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// decodeOptional accepts an empty body; the identity claims fill the gaps.
func decodeOptional(r *http.Request, dst any) error {
	if r.Body == nil || r.Body == http.NoBody || r.ContentLength == 0 {
		return nil
	}
	return validator.DecodeAndValidate(r, dst)
}

package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/utafrali/mailer/internal/service"
	"github.com/utafrali/mailer/pkg/httputil"
	"github.com/utafrali/mailer/pkg/middleware"
)

// AuthUserCookie carries the requesting user ID across the consent redirect
// for providers that drop the state parameter.
const AuthUserCookie = "googleAuthUserId"

// CookieConfig controls the fallback cookie set by Init.
type CookieConfig struct {
	Domain string
	Secure bool
	TTL    time.Duration
}

// OAuthHandler serves the Google authorization handshake.
type OAuthHandler struct {
	service        *service.ConnectService
	cookie         CookieConfig
	redirectTarget string
	logger         *slog.Logger
	now            func() time.Time
}

// NewOAuthHandler creates a new OAuth HTTP handler. Successful callbacks
// redirect to redirectTarget.
func NewOAuthHandler(svc *service.ConnectService, cookie CookieConfig, redirectTarget string, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		service:        svc,
		cookie:         cookie,
		redirectTarget: redirectTarget,
		logger:         logger,
		now:            time.Now,
	}
}

// InitResponse is returned by Init.
type InitResponse struct {
	AuthURL   string `json:"authUrl"`
	Timestamp int64  `json:"timestamp"`
}

// Init handles GET /api/auth/google/init
func (h *OAuthHandler) Init(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	authURL, err := h.service.InitiateAuthorization(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	http.SetCookie(w, h.authCookie(userID, int(h.cookie.TTL.Seconds())))
	httputil.WriteJSON(w, http.StatusOK, InitResponse{
		AuthURL:   authURL,
		Timestamp: h.now().UnixMilli(),
	})
}

// Callback handles GET /api/auth/google/callback
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var cookieUserID string
	if c, err := r.Cookie(AuthUserCookie); err == nil {
		cookieUserID = c.Value
	}
	http.SetCookie(w, h.authCookie("", -1))

	if reason := q.Get("error"); reason != "" {
		h.logger.WarnContext(r.Context(), "google consent returned an error", slog.String("reason", reason))
	}

	if _, err := h.service.HandleCallback(r.Context(), q.Get("code"), q.Get("state"), cookieUserID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	http.Redirect(w, r, h.redirectTarget, http.StatusFound)
}

// authCookie builds the fallback cookie. A negative maxAge deletes it.
func (h *OAuthHandler) authCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     AuthUserCookie,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteNoneMode,
	}
}

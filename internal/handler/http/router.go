package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/mailer/internal/service"
	"github.com/utafrali/mailer/pkg/health"
	"github.com/utafrali/mailer/pkg/middleware"
)

// Services groups the application services the router dispatches to.
type Services struct {
	Connect  *service.ConnectService
	Mail     *service.MailService
	Profile  *service.ProfileService
	Contacts *service.ContactService
	Groups   *service.GroupService
	Template *service.TemplateService
}

// RouterConfig holds the HTTP-level settings of the router.
type RouterConfig struct {
	ServiceName    string
	CORS           middleware.CORSConfig
	Cookie         CookieConfig
	RedirectTarget string
}

// NewRouter creates a chi router with all mailer routes registered.
func NewRouter(
	svcs Services,
	verify middleware.TokenVerifier,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	oauthHandler := NewOAuthHandler(svcs.Connect, cfg.Cookie, cfg.RedirectTarget, logger)
	mailHandler := NewMailHandler(svcs.Mail, logger)
	profileHandler := NewProfileHandler(svcs.Profile, logger)
	contactHandler := NewContactHandler(svcs.Contacts, logger)
	groupHandler := NewGroupHandler(svcs.Groups, logger)
	templateHandler := NewTemplateHandler(svcs.Template, logger)

	r.Route("/api", func(r chi.Router) {
		// Google redirects the browser here without a bearer token.
		r.Get("/auth/google/callback", oauthHandler.Callback)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verify))

			r.Post("/signup", profileHandler.Signup)
			r.Post("/google-login", profileHandler.GoogleLogin)
			r.Get("/user/profile", profileHandler.GetProfile)
			r.Put("/user/profile", profileHandler.UpdateProfile)
			r.Delete("/user/profile/google-connection", profileHandler.DisconnectGoogle)

			r.With(middleware.NoStore).Get("/auth/google/init", oauthHandler.Init)

			r.Post("/send-email", mailHandler.Send)

			r.Get("/contacts", contactHandler.List)
			r.Post("/contacts", contactHandler.Create)
			r.Put("/contacts/{id}", contactHandler.Update)
			r.Delete("/contacts/{id}", contactHandler.Delete)
			r.Post("/update-contact/{id}", contactHandler.Update)

			r.Get("/groups", groupHandler.List)
			r.Post("/groups", groupHandler.Create)
			r.Get("/groups/{groupId}", groupHandler.Get)
			r.Put("/groups/{groupId}", groupHandler.Update)
			r.Delete("/groups/{groupId}", groupHandler.Delete)
			r.Get("/groups/{groupId}/contacts", groupHandler.ListContacts)
			r.Post("/groups/{groupId}/contacts", groupHandler.AddContacts)
			r.Delete("/groups/{groupId}/contacts", groupHandler.RemoveContacts)

			r.Get("/templates", templateHandler.List)
			r.Post("/templates", templateHandler.Create)
			r.Put("/templates/{id}", templateHandler.Update)
			r.Delete("/templates/{id}", templateHandler.Delete)
		})
	})

	return r
}

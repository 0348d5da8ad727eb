package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/utafrali/mailer/internal/auth"
	"github.com/utafrali/mailer/internal/config"
	"github.com/utafrali/mailer/internal/event"
	"github.com/utafrali/mailer/internal/google"
	handler "github.com/utafrali/mailer/internal/handler/http"
	"github.com/utafrali/mailer/internal/repository/postgres"
	"github.com/utafrali/mailer/internal/service"
	"github.com/utafrali/mailer/migrations"
	"github.com/utafrali/mailer/pkg/database"
	"github.com/utafrali/mailer/pkg/health"
	"github.com/utafrali/mailer/pkg/httpclient"
	pkgkafka "github.com/utafrali/mailer/pkg/kafka"
	"github.com/utafrali/mailer/pkg/middleware"
	"github.com/utafrali/mailer/pkg/tracing"
)

// App wires together all dependencies and runs the mailer service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.Init(ctx, cfg.Tracing())
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, cfg.ServiceName); err != nil {
		pool.Close()
		return nil, fmt.Errorf("register pool metrics: %w", err)
	}

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQueryThreshold > 0 {
		database.SetSlowQueryLogging(cfg.SlowQueryThreshold, logger)
	}

	// Domain events go to Kafka only when enabled.
	var (
		producer *pkgkafka.Producer
		events   service.EventPublisher = event.NopProducer{}
	)
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: 10 * time.Second,
		}, logger)
		events = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// One instrumented client for every outbound Google call.
	googleHTTP := httpclient.New(httpclient.Config{Timeout: cfg.GoogleHTTPTimeout})

	verify, err := newIdentityVerifier(ctx, cfg, googleHTTP)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init identity verifier: %w", err)
	}

	// Build the dependency graph.
	oauthClient := google.NewOAuthClient(google.OAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
	}, googleHTTP)
	mailer := google.NewMailer(googleHTTP, cfg.GmailEndpoint)
	stateSigner := auth.NewStateSigner(cfg.StateSecret, cfg.StateTTL)

	userRepo := postgres.NewUserRepository(pool)
	credStore := postgres.NewCredentialStore(pool)
	contactRepo := postgres.NewContactRepository(pool)
	groupRepo := postgres.NewGroupRepository(pool)
	templateRepo := postgres.NewTemplateRepository(pool)

	connectService := service.NewConnectService(stateSigner, oauthClient, credStore, events, logger)
	svcs := handler.Services{
		Connect:  connectService,
		Mail:     service.NewMailService(oauthClient, mailer, credStore, events, logger),
		Profile:  service.NewProfileService(userRepo, connectService, logger),
		Contacts: service.NewContactService(contactRepo, logger),
		Groups:   service.NewGroupService(groupRepo, contactRepo, logger),
		Template: service.NewTemplateService(templateRepo, logger),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	// HTTP router.
	router := handler.NewRouter(svcs, verify, healthHandler, logger, handler.RouterConfig{
		ServiceName: cfg.ServiceName,
		CORS: middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowCredentials: true,
		},
		Cookie: handler.CookieConfig{
			Domain: cfg.CookieDomain,
			Secure: cfg.CookieSecure,
			TTL:    cfg.CookieTTL,
		},
		RedirectTarget: cfg.RedirectTarget(),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// newIdentityVerifier selects how bearer tokens are checked.
func newIdentityVerifier(ctx context.Context, cfg *config.Config, httpClient *http.Client) (middleware.TokenVerifier, error) {
	switch cfg.IdentityProvider {
	case config.IdentityProviderHMAC:
		return auth.NewHMACIdentityVerifier(cfg.IdentityHMACSecret, cfg.Audience()).Verify, nil
	default:
		v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("create id token validator: %w", err)
		}
		return auth.NewGoogleIdentityVerifier(v, cfg.Audience()).Verify, nil
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown stops components in order: HTTP server, tracer, Kafka producer,
// PostgreSQL pool. In-flight requests are drained first so their spans and
// events are flushed.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

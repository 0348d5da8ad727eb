package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/utafrali/mailer/pkg/config"
	"github.com/utafrali/mailer/pkg/database"
	"github.com/utafrali/mailer/pkg/tracing"
)

const (
	defaultStateSecret = "change-this-to-a-secure-secret"
	minSecretLength    = 32

	IdentityProviderGoogle = "google"
	IdentityProviderHMAC   = "hmac"
)

// Config holds all configuration for the mailer service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"mailer"`
	Version     string `env:"SERVICE_VERSION" envDefault:"dev"`

	// HTTP server
	HTTPPort          int           `env:"HTTP_PORT" envDefault:"3000"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// PostgreSQL
	PostgresHost       string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort       int           `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser       string        `env:"POSTGRES_USER" envDefault:"mailer"`
	PostgresPass       string        `env:"POSTGRES_PASSWORD" envDefault:"mailer_secret"`
	PostgresDB         string        `env:"POSTGRES_DB" envDefault:"mailer"`
	PostgresSSL        string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns         int32         `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns         int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnLifetime  time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime  time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	SlowQueryThreshold time.Duration `env:"SLOW_QUERY_THRESHOLD" envDefault:"200ms"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTelInsecure   bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// Browser redirect after a completed Google connection.
	FrontendURL          string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	PostAuthRedirectPath string `env:"POST_AUTH_REDIRECT_PATH" envDefault:"/dashboard"`

	// Google OAuth client used for delegated Gmail access.
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string        `env:"GOOGLE_REDIRECT_URI" envDefault:"http://localhost:3000/api/auth/google/callback"`
	GoogleHTTPTimeout  time.Duration `env:"GOOGLE_HTTP_TIMEOUT" envDefault:"30s"`
	// GmailEndpoint overrides the Gmail API base URL. Empty means Google's.
	GmailEndpoint string `env:"GMAIL_ENDPOINT"`

	// Authorization handshake
	StateSecret  string        `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	StateTTL     time.Duration `env:"OAUTH_STATE_TTL" envDefault:"1h"`
	CookieDomain string        `env:"OAUTH_COOKIE_DOMAIN"`
	CookieSecure bool          `env:"OAUTH_COOKIE_SECURE" envDefault:"true"`
	CookieTTL    time.Duration `env:"OAUTH_COOKIE_TTL" envDefault:"10m"`

	// Identity gate
	IdentityProvider   string `env:"IDENTITY_PROVIDER" envDefault:"google"`
	IdentityAudience   string `env:"IDENTITY_AUDIENCE"`
	IdentityHMACSecret string `env:"IDENTITY_HMAC_SECRET"`
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load mailer config: %w", err)
	}
	return cfg, nil
}

// Upper bounds for the authorization handshake lifetimes.
const (
	MaxStateTTL  = time.Hour
	MaxCookieTTL = 10 * time.Minute
)

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Validate implements pkgconfig.Validator.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.StateTTL <= 0 || c.StateTTL > MaxStateTTL {
		return fmt.Errorf("OAUTH_STATE_TTL must be within (0, %s], got %s", MaxStateTTL, c.StateTTL)
	}
	if c.CookieTTL <= 0 || c.CookieTTL > MaxCookieTTL {
		return fmt.Errorf("OAUTH_COOKIE_TTL must be within (0, %s], got %s", MaxCookieTTL, c.CookieTTL)
	}
	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be within [0,1], got %v", c.OTelSampleRate)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if _, err := url.ParseRequestURI(c.FrontendURL); err != nil {
		return fmt.Errorf("FRONTEND_URL is not a valid URL: %w", err)
	}
	if !strings.HasPrefix(c.PostAuthRedirectPath, "/") {
		return errors.New("POST_AUTH_REDIRECT_PATH must start with /")
	}

	if !c.IsDevelopment() {
		if c.StateSecret == defaultStateSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.StateSecret) < minSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters long, got %d", minSecretLength, len(c.StateSecret))
		}
		if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
			return errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
		}
	}

	switch c.IdentityProvider {
	case IdentityProviderGoogle:
		if c.IdentityAudience == "" && c.GoogleClientID == "" {
			return errors.New("IDENTITY_AUDIENCE or GOOGLE_CLIENT_ID is required for the google identity provider")
		}
	case IdentityProviderHMAC:
		if !c.IsDevelopment() {
			return fmt.Errorf("IDENTITY_PROVIDER=hmac is only allowed in development, not %q", c.Environment)
		}
		if len(c.IdentityHMACSecret) < minSecretLength {
			return fmt.Errorf("IDENTITY_HMAC_SECRET must be at least %d characters long", minSecretLength)
		}
	default:
		return fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider)
	}

	return nil
}

// Audience returns the expected audience of identity tokens, defaulting to
// the OAuth client ID.
func (c *Config) Audience() string {
	if c.IdentityAudience != "" {
		return c.IdentityAudience
	}
	return c.GoogleClientID
}

// RedirectTarget is where the browser lands after a successful callback.
func (c *Config) RedirectTarget() string {
	return strings.TrimRight(c.FrontendURL, "/") + c.PostAuthRedirectPath
}

// Postgres returns the connection pool settings.
func (c *Config) Postgres() *database.PostgresConfig {
	return &database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: c.DBMaxConnLifetime,
		MaxConnIdleTime: c.DBMaxConnIdleTime,
	}
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing() tracing.Config {
	return tracing.Config{
		Enabled:        c.OTelEnabled,
		ServiceName:    c.ServiceName,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTelEndpoint,
		Insecure:       c.OTelInsecure,
		SampleRate:     c.OTelSampleRate,
	}
}

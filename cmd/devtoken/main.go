// Command devtoken mints identity tokens accepted by a mailer running with
// IDENTITY_PROVIDER=hmac. It reads the same environment as the server.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/utafrali/mailer/internal/auth"
	"github.com/utafrali/mailer/internal/config"
	"github.com/utafrali/mailer/pkg/middleware"
)

func main() {
	var (
		userID  = flag.String("user", "dev-user", "subject (user id) of the token")
		email   = flag.String("email", "dev@example.com", "email claim")
		name    = flag.String("name", "Dev User", "name claim")
		picture = flag.String("picture", "", "picture claim")
		ttl     = flag.Duration("ttl", time.Hour, "token lifetime")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.IdentityProvider != config.IdentityProviderHMAC {
		slog.Error("IDENTITY_PROVIDER must be hmac", slog.String("identity_provider", cfg.IdentityProvider))
		os.Exit(1)
	}

	token, err := auth.NewHMACIdentityVerifier(cfg.IdentityHMACSecret, cfg.Audience()).Issue(middleware.Claims{
		UserID:  *userID,
		Email:   *email,
		Name:    *name,
		Picture: *picture,
	}, *ttl)
	if err != nil {
		slog.Error("failed to issue token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}

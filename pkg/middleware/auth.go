package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/utafrali/mailer/pkg/httputil"
	"github.com/utafrali/mailer/pkg/logger"
)

type contextKeyType string

const claimsKey contextKeyType = "claims"

// Claims identifies the authenticated caller.
type Claims struct {
	UserID  string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier validates a bearer token and returns the caller's claims.
type TokenVerifier func(ctx context.Context, token string) (*Claims, error)

// Auth rejects requests without a valid "Authorization: Bearer <token>"
// header with a 401. On success the claims are stored in the request context
// and the request-scoped logger gains a user_id field.
func Auth(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeUnauthorized(w, r)
				return
			}

			claims, err := verify(r.Context(), token)
			if err != nil || claims == nil || claims.UserID == "" {
				l := logger.FromContext(r.Context())
				if err != nil {
					l.DebugContext(r.Context(), "identity token rejected", slog.String("error", err.Error()))
				}
				writeUnauthorized(w, r)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = logger.WithUserID(ctx, claims.UserID)
			ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WithClaims stores claims in ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the claims stored by Auth, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsKey).(*Claims)
	return c
}

// UserIDFromContext returns the authenticated user ID, or "".
func UserIDFromContext(ctx context.Context) string {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.UserID
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
		Code:      "UNAUTHORIZED",
		Message:   "Unauthorized",
		RequestID: logger.RequestIDFromContext(r.Context()),
	})
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/idtoken"

	"github.com/utafrali/mailer/pkg/middleware"
)

// PayloadValidator validates a Google-signed ID token. *idtoken.Validator
// satisfies it.
type PayloadValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// GoogleIdentityVerifier resolves callers from Google Sign-In ID tokens.
type GoogleIdentityVerifier struct {
	validator PayloadValidator
	audience  string
}

// NewGoogleIdentityVerifier creates a verifier that accepts tokens minted for
// audience.
func NewGoogleIdentityVerifier(v PayloadValidator, audience string) *GoogleIdentityVerifier {
	return &GoogleIdentityVerifier{validator: v, audience: audience}
}

// Verify implements middleware.TokenVerifier.
func (v *GoogleIdentityVerifier) Verify(ctx context.Context, token string) (*middleware.Claims, error) {
	payload, err := v.validator.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("validate id token: %w", err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (*middleware.Claims, error) {
	if p == nil || p.Subject == "" {
		return nil, errors.New("id token has no subject")
	}
	claims := &middleware.Claims{UserID: p.Subject}
	claims.Email, _ = p.Claims["email"].(string)
	claims.Name, _ = p.Claims["name"].(string)
	claims.Picture, _ = p.Claims["picture"].(string)
	return claims, nil
}

// IdentityClaims are the claims of a locally minted identity token.
type IdentityClaims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// HMACIdentityVerifier issues and verifies HS256 identity tokens. It stands in
// for the external identity provider in development.
type HMACIdentityVerifier struct {
	secret   []byte
	audience string
	now      func() time.Time
}

// NewHMACIdentityVerifier creates a verifier for tokens signed with secret.
func NewHMACIdentityVerifier(secret, audience string) *HMACIdentityVerifier {
	return &HMACIdentityVerifier{secret: []byte(secret), audience: audience, now: time.Now}
}

// Issue mints an identity token for the given caller.
func (v *HMACIdentityVerifier) Issue(c middleware.Claims, ttl time.Duration) (string, error) {
	now := v.now().UTC()
	claims := &IdentityClaims{
		Email:   c.Email,
		Name:    c.Name,
		Picture: c.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID,
			Audience:  jwt.ClaimStrings{v.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign identity token: %w", err)
	}
	return signed, nil
}

// Verify implements middleware.TokenVerifier.
func (v *HMACIdentityVerifier) Verify(_ context.Context, token string) (*middleware.Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &IdentityClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse identity token: %w", err)
	}

	claims, ok := parsed.Claims.(*IdentityClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid identity token claims")
	}
	return &middleware.Claims{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

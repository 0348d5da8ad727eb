package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	stateAudience = "google-oauth-state"
	stateIssuer   = "mailer"
)

// ErrEmptyState is returned by Verify for an empty token.
var ErrEmptyState = errors.New("empty state token")

// StateClaims are carried by the OAuth state parameter. The token itself is
// the only record of a pending authorization.
type StateClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// StateSigner mints and verifies the signed state tokens that bind a consent
// redirect to the user who requested it.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStateSigner creates a signer using HS256 with the given secret.
func NewStateSigner(secret string, ttl time.Duration) *StateSigner {
	return &StateSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a state token for userID that expires after the signer's TTL.
func (s *StateSigner) Issue(userID string) (string, error) {
	now := s.now().UTC()
	claims := &StateClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			Audience:  jwt.ClaimStrings{stateAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, audience, issuer and expiry and returns
// the embedded user ID.
func (s *StateSigner) Verify(token string) (string, error) {
	if token == "" {
		return "", ErrEmptyState
	}

	parsed, err := jwt.ParseWithClaims(token, &StateClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(stateAudience),
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("parse state token: %w", err)
	}

	claims, ok := parsed.Claims.(*StateClaims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return "", fmt.Errorf("invalid state token claims")
	}
	return claims.UserID, nil
}

// Package auth provides the OIDC login flow and JWT session handling.
//
// SESSION MODEL:
// After the OIDC callback upserts the user, the server issues a signed JWT
// whose subject is the user id and stores it in an HttpOnly cookie. On every
// protected request the middleware validates the cookie — no session table,
// no DB lookup. The signature ensures nobody can forge or tamper with the
// token without the secret key.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTTL is how long an issued session cookie stays valid. The mobile
// client keeps users signed in for a day; after that the API returns 401 and
// the client re-initiates the login flow.
const sessionTTL = 24 * time.Hour

const issuer = "design-crm"

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims which includes
// standard fields like Issuer, Subject, ExpiresAt, IssuedAt.
//
// We use "sub" (Subject) to store the user ID — the standard JWT claim for
// identifying who the token belongs to.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, fast, and fine for a
// single-server deployment.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, sessionTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by the tests to exercise expiry handling.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string.
// Returns the userID (stored in the "sub" claim) if the token is valid.
//
// The jwt library checks the signature, the expiry, the issuer, and — via
// WithValidMethods — that the algorithm is HS256, which blocks algorithm
// confusion attacks.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	userID := c.Subject
	if userID == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return userID, nil
}

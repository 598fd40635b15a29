// Package auth provides JWT session tokens, password hashing, Google sign-in
// verification, and the request middleware that enforces them.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. A user signs up or logs in (email/password or a Google ID token)
//  2. The server issues a JWT carrying the user's ID, email, and role
//  3. The client sends it back on every API call as
//     "Authorization: Bearer <token>"
//  4. Middleware validates the signature and expiry and puts the decoded
//     claims in the request context; role-gated routes then compare the
//     claimed role against the route's required role
//
// The token is stateless: no session store, no revocation list. A token
// stays valid for its full 24h lifetime even if the password or role changes
// afterwards — picking up a role change requires logging in again.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/jobboard/internal/model"
)

// TokenLifetime is how long an issued session token remains valid.
const TokenLifetime = 24 * time.Hour

const issuer = "jobboard"

// Claims is the JWT payload: the standard registered claims plus the email
// and role of the account. The "sub" (Subject) claim holds the internal
// user ID.
//
// The role here is a snapshot taken at issuance. The role gate trusts it
// without re-fetching the user record.
type Claims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the internal user ID stored in the Subject claim.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenService signs and verifies session tokens.
//
// It holds the HMAC secret used for both operations. The same secret must
// be configured on every instance that needs to verify tokens.
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

// Generate creates and signs a new session token for the given user,
// valid for TokenLifetime (24 hours).
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key signs and
// verifies.
func (s *TokenService) Generate(user *model.User) (string, error) {
	return s.GenerateWithDuration(user, TokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used by tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(user *model.User, d time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
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

// Validate parses and verifies a token string and returns its claims.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired
//   - Issuer matches ours (rejects tokens minted by other apps)
//   - Algorithm is HS256 (WithValidMethods blocks algorithm-confusion
//     tokens signed with "none" or an RSA public key)
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
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
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}
	if !c.Role.Valid() {
		return nil, fmt.Errorf("auth: token carries unknown role %q", c.Role)
	}

	return c, nil
}

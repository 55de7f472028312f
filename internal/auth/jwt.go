// Package auth provides JWT token issuance/verification, password hashing,
// and the middleware that gates the admin API.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Admin signs up via POST /api/auth/signup (password is bcrypt-hashed)
// 2. Admin logs in via POST /api/auth/login with form-encoded credentials
// 3. Server issues a JWT access token carrying the username and admin ID
// 4. On admin API calls, the client sends "Authorization: Bearer <token>"
// 5. Middleware verifies the token, resolves the admin row, and puts the
//    principal in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store
// session data. Everything needed (who, until when) is inside the signed
// token, and the HMAC signature makes it tamper-evident without a DB lookup.
//
// The flip side of statelessness: there is no revocation list. A leaked
// token remains valid until its expiry (60 minutes by default). That is an
// accepted limitation of this service.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long an access token stays valid after issuance.
const DefaultTokenTTL = 60 * time.Minute

const issuer = "foundry"

// Identity is the pair of claims every valid token must carry: the
// username (JWT "sub") and the internal admin ID (custom "id" claim).
type Identity struct {
	Username string
	AdminID  string
}

// TokenService signs and verifies access tokens.
//
// The secret and TTL are injected through the constructor — there is no
// package-level key. The same secret must be used for both operations;
// rotate it periodically in production.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given HMAC secret and
// token lifetime. A zero ttl selects DefaultTokenTTL.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// adminClaims is the JWT payload. It embeds jwt.RegisteredClaims (standard
// fields: Subject, IssuedAt, ExpiresAt, Issuer) and adds the internal admin
// ID under "id" so verification can resolve the principal row directly.
type adminClaims struct {
	AdminID string `json:"id"`
	jwt.RegisteredClaims
}

// Issue creates and signs an access token for the given admin.
//
// Signing algorithm: HS256 (HMAC-SHA256)
// - Symmetric: same key signs and verifies
// - Fast and simple — fine for a single-service deployment
// - RS256 would be the choice if other services had to verify tokens
func (s *TokenService) Issue(username, adminID string) (string, error) {
	return s.IssueWithTTL(username, adminID, s.ttl)
}

// IssueWithTTL creates a token with a custom lifetime. Used by tests to
// mint already-expired tokens; production callers should use Issue.
func (s *TokenService) IssueWithTTL(username, adminID string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := adminClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
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

// Verify parses and validates a token string and returns the identity it
// encodes.
//
// VALIDATION CHECKS (mostly performed by the jwt library):
//   - Signature is valid (token wasn't tampered with)
//   - Token is not expired and expiry is present
//   - Issuer matches ours (rejects tokens minted by other apps)
//   - Algorithm is HS256 — passing jwt.WithValidMethods closes the
//     classic "alg confusion" hole where a token claiming alg=none or an
//     asymmetric scheme would otherwise slip through
//   - Both the subject and the admin ID claim are present; a token
//     missing either is useless for resolving a principal and is rejected
func (s *TokenService) Verify(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&adminClaims{},
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

	c, ok := token.Claims.(*adminClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" || c.AdminID == "" {
		return nil, fmt.Errorf("auth: token missing subject or admin id")
	}

	return &Identity{Username: c.Subject, AdminID: c.AdminID}, nil
}

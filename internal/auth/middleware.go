package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/foundry/internal/apperror"
	"github.com/sakif/foundry/internal/model"
	"github.com/sakif/foundry/internal/repository"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue takes `any` as the key. With a plain string key, any
// package that knows the string can read or shadow the value. A
// package-private type means only THIS package can create such a key, so
// only this package can put a principal into (or read one out of) a context.
type contextKey string

const principalKey contextKey = "principal"

// RequireAdmin is the middleware that gates every /api/admin route.
//
// Per request it makes exactly one decision, with no caching of results
// across requests:
//
//  1. Read the "Authorization: Bearer <token>" header
//  2. Verify the token (signature, expiry, presence of subject + admin ID)
//  3. Resolve the admin row by the token's admin ID
//  4. Put the resolved *model.Admin into the request context, or reject
//     with 401 and a deliberately generic message
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain:
// req → RequestID → Logger → RequireAdmin → handler.
//
// Step 3 matters: a token can be cryptographically valid yet reference an
// admin that no longer resolves. The handler downstream must be able to
// trust that the principal in the context is a real, current row.
func RequireAdmin(tokens *TokenService, admins repository.AdminRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "Invalid authentication token")
				return
			}

			identity, err := tokens.Verify(token)
			if err != nil {
				unauthorized(w, "Invalid authentication token")
				return
			}

			admin, err := admins.FindByID(r.Context(), identity.AdminID)
			if err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					unauthorized(w, "Admin not found")
					return
				}
				// Store failure, not an auth failure — surface as a 500.
				http.Error(w, `{"error":"internal_error","message":"An internal error occurred"}`, http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext retrieves the authenticated admin from the request
// context.
//
// Returns (nil, false) on routes that never passed through RequireAdmin.
// Handlers behind the middleware can rely on ok being true.
func PrincipalFromContext(ctx context.Context) (*model.Admin, bool) {
	admin, ok := ctx.Value(principalKey).(*model.Admin)
	return admin, ok && admin != nil
}

// bearerToken extracts the token from the Authorization header.
// The scheme comparison is case-insensitive ("bearer x" is accepted),
// matching how HTTP auth schemes are defined.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// unauthorized writes the standard 401 error body.
// This package can't import internal/handler (the handler package imports
// us), so the small JSON body is written directly here.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"` + message + `"}`))
}

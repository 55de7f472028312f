package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/foundry/internal/auth"
	"github.com/sakif/foundry/internal/service"
)

// AuthHandler manages admin registration, login, and the current-admin
// endpoint.
//
// HANDLER RESPONSIBILITIES:
//   - HandleSignup → JSON body, create the account, 201 with the profile
//   - HandleLogin  → form body, verify credentials, return a bearer token
//   - HandleMe     → echo the principal the middleware already resolved
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the login payload. token_type is always "bearer" so
// clients know to send `Authorization: Bearer <token>`.
type tokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	User        AdminResponse `json:"user"`
}

// HandleSignup registers a new admin account.
//
// HTTP: POST /api/auth/signup
// REQUEST BODY: {"username": "alice", "email": "a@example.com", "password": "..."}
//
// RESPONSES:
//   - 201 with the new profile (never the password or its hash)
//   - 400 when the username or email is already taken
//   - 422 when a field fails validation
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid signup JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid JSON body",
		})
		return
	}

	admin, err := h.auth.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAdminResponse(admin))
}

// HandleLogin authenticates an admin and issues a bearer token.
//
// HTTP: POST /api/auth/login
// REQUEST BODY: form-encoded `username=alice&password=...`
//
// WHY FORM-ENCODED?
// The token endpoint follows the OAuth2 password-grant shape, which
// standard clients submit as application/x-www-form-urlencoded rather
// than JSON. Failures carry `WWW-Authenticate: Bearer` per RFC 6750.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid form body",
		})
		return
	}

	result, err := h.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.Token,
		TokenType:   "bearer",
		User:        toAdminResponse(result.Admin),
	})
}

// HandleMe returns the authenticated admin's profile.
//
// HTTP: GET /api/auth/admin (behind the bearer middleware)
//
// The middleware already verified the token and loaded the admin into the
// request context; this handler only projects it.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	admin, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		// Only reachable if the route is wired without the middleware.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Not authenticated",
		})
		return
	}

	writeJSON(w, http.StatusOK, toAdminResponse(admin))
}

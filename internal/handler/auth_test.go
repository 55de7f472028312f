package handler_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/foundry/internal/auth"
	"github.com/sakif/foundry/internal/handler"
	sqliteRepo "github.com/sakif/foundry/internal/repository/sqlite"
	"github.com/sakif/foundry/internal/service"
)

func newAuthRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars", 0)
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest(4)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	authService := service.NewAuthService(db.Admins, tokens, passwords, logger)
	h := handler.NewAuthHandler(authService, logger)

	r := chi.NewRouter()
	r.Post("/api/auth/signup", h.HandleSignup)
	r.Post("/api/auth/login", h.HandleLogin)
	r.With(auth.RequireAdmin(tokens, db.Admins)).Get("/api/auth/admin", h.HandleMe)
	return r
}

func signupTestAdmin(t *testing.T, router http.Handler) {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/auth/signup",
		`{"username":"alice","email":"alice@example.com","password":"Sup3rSecret"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
}

func loginForm(t *testing.T, router http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("valid signup", func(t *testing.T) {
		router := newAuthRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/api/auth/signup",
			`{"username":"alice","email":"alice@example.com","password":"Sup3rSecret"}`)
		assert.Equal(t, http.StatusCreated, rr.Code)

		raw := rr.Body.String()

		var admin handler.AdminResponse
		require.NoError(t, json.Unmarshal([]byte(raw), &admin))
		assert.NotEmpty(t, admin.ID)
		assert.Equal(t, "alice", admin.Username)
		assert.Equal(t, "admin", admin.Role)

		// Neither the password nor its hash may appear on the wire.
		assert.NotContains(t, raw, "Sup3rSecret")
		assert.NotContains(t, raw, "password")
	})

	t.Run("duplicate identity", func(t *testing.T) {
		router := newAuthRouter(t)
		signupTestAdmin(t, router)

		rr := doJSON(t, router, http.MethodPost, "/api/auth/signup",
			`{"username":"alice","email":"other@example.com","password":"Sup3rSecret"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var errResp handler.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
		assert.Equal(t, "conflict", errResp.Error)
	})

	t.Run("weak password", func(t *testing.T) {
		router := newAuthRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/api/auth/signup",
			`{"username":"alice","email":"alice@example.com","password":"alllower"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var errResp handler.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&errResp))
		assert.Equal(t, "validation_error", errResp.Error)
		assert.Equal(t, "password", errResp.Field)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		router := newAuthRouter(t)

		rr := doJSON(t, router, http.MethodPost, "/api/auth/signup", `{"username":`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		router := newAuthRouter(t)
		signupTestAdmin(t, router)

		rr := loginForm(t, router, "alice", "Sup3rSecret")
		assert.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			AccessToken string                `json:"access_token"`
			TokenType   string                `json:"token_type"`
			User        handler.AdminResponse `json:"user"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.NotEmpty(t, body.AccessToken)
		assert.Equal(t, "bearer", body.TokenType)
		assert.Equal(t, "alice", body.User.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		router := newAuthRouter(t)
		signupTestAdmin(t, router)

		rr := loginForm(t, router, "alice", "WrongPass1")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("unknown username", func(t *testing.T) {
		router := newAuthRouter(t)

		rr := loginForm(t, router, "nobody", "Sup3rSecret")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("with bearer token", func(t *testing.T) {
		router := newAuthRouter(t)
		signupTestAdmin(t, router)

		rr := loginForm(t, router, "alice", "Sup3rSecret")
		require.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))

		req := httptest.NewRequest(http.MethodGet, "/api/auth/admin", nil)
		req.Header.Set("Authorization", "Bearer "+body.AccessToken)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var admin handler.AdminResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&admin))
		assert.Equal(t, "alice", admin.Username)
	})

	t.Run("without token", func(t *testing.T) {
		router := newAuthRouter(t)

		rr := doJSON(t, router, http.MethodGet, "/api/auth/admin", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

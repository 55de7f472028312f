package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/sakif/foundry/internal/apperror"
	"github.com/sakif/foundry/internal/auth"
	"github.com/sakif/foundry/internal/model"
)

// =========================================================================
// MOCK ADMIN REPOSITORY
// =========================================================================
//
// Same pattern as the catalog mocks: in-memory map behind the repository
// interface, returning copies so tests can't mutate stored state.

type mockAdminRepo struct {
	byID       map[string]*model.Admin
	byUsername map[string]*model.Admin
	nextID     int
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{
		byID:       make(map[string]*model.Admin),
		byUsername: make(map[string]*model.Admin),
	}
}

func (m *mockAdminRepo) Create(_ context.Context, admin *model.Admin) error {
	for _, existing := range m.byID {
		if existing.Username == admin.Username || existing.Email == admin.Email {
			return apperror.DuplicateIdentity()
		}
	}
	m.nextID++
	admin.ID = mockID("admin", m.nextID)
	stored := *admin
	m.byID[admin.ID] = &stored
	m.byUsername[admin.Username] = &stored
	return nil
}

func (m *mockAdminRepo) FindByUsername(_ context.Context, username string) (*model.Admin, error) {
	admin, ok := m.byUsername[username]
	if !ok {
		return nil, apperror.NotFound("admin", username)
	}
	result := *admin
	return &result, nil
}

func (m *mockAdminRepo) FindByID(_ context.Context, id string) (*model.Admin, error) {
	admin, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("admin", id)
	}
	result := *admin
	return &result, nil
}

// =========================================================================
// TEST HELPER
// =========================================================================

func newTestAuthService(t *testing.T) (*AuthService, *mockAdminRepo) {
	t.Helper()
	repo := newMockAdminRepo()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars", 0)
	if err != nil {
		t.Fatalf("setup: NewTokenService() error = %v", err)
	}
	// Low bcrypt cost keeps the test suite fast.
	passwords := auth.NewPasswordServiceForTest(4)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, tokens, passwords, logger), repo
}

// =========================================================================
// SIGNUP TESTS
// =========================================================================

func TestSignup_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	admin, err := svc.Signup(context.Background(), "alice", "alice@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	if admin.ID == "" {
		t.Error("expected admin to have an ID")
	}
	if admin.Username != "alice" {
		t.Errorf("Username = %q, want %q", admin.Username, "alice")
	}
	if admin.Role != "admin" {
		t.Errorf("Role = %q, want %q", admin.Role, "admin")
	}
	if admin.HashedPassword == "Sup3rSecret" {
		t.Error("password should be hashed, not stored verbatim")
	}
}

func TestSignup_TrimsWhitespace(t *testing.T) {
	svc, _ := newTestAuthService(t)

	admin, err := svc.Signup(context.Background(), "  alice  ", " alice@example.com ", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if admin.Username != "alice" {
		t.Errorf("Username = %q, want trimmed %q", admin.Username, "alice")
	}
	if admin.Email != "alice@example.com" {
		t.Errorf("Email = %q, want trimmed %q", admin.Email, "alice@example.com")
	}
}

func TestSignup_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"username too short", "ab", "a@example.com", "Sup3rSecret"},
		{"username too long", strings.Repeat("a", MaxUsernameLength+1), "a@example.com", "Sup3rSecret"},
		{"username with spaces", "bad user", "a@example.com", "Sup3rSecret"},
		{"username with symbols", "user!", "a@example.com", "Sup3rSecret"},
		{"empty email", "alice", "", "Sup3rSecret"},
		{"malformed email", "alice", "not-an-email", "Sup3rSecret"},
		{"email too long", "alice", strings.Repeat("a", MaxEmailLength) + "@example.com", "Sup3rSecret"},
		{"password too short", "alice", "a@example.com", "Sh0rt"},
		{"password no uppercase", "alice", "a@example.com", "alllower123"},
		{"password no lowercase", "alice", "a@example.com", "ALLUPPER123"},
		{"password no digit", "alice", "a@example.com", "NoDigitsHere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestAuthService(t)

			_, err := svc.Signup(context.Background(), tt.username, tt.email, tt.password)
			if err == nil {
				t.Fatal("Signup() should error")
			}
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSignup_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com", "Sup3rSecret"); err != nil {
		t.Fatalf("setup: Signup() error = %v", err)
	}

	_, err := svc.Signup(context.Background(), "alice", "other@example.com", "Sup3rSecret")
	if err == nil {
		t.Fatal("Signup() should error on duplicate username")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com", "Sup3rSecret"); err != nil {
		t.Fatalf("setup: Signup() error = %v", err)
	}

	_, err := svc.Signup(context.Background(), "bob", "alice@example.com", "Sup3rSecret")
	if err == nil {
		t.Fatal("Signup() should error on duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com", "Sup3rSecret"); err != nil {
		t.Fatalf("setup: Signup() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "alice", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("expected a non-empty token")
	}
	if result.Admin.Username != "alice" {
		t.Errorf("Admin.Username = %q, want %q", result.Admin.Username, "alice")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.Signup(context.Background(), "alice", "alice@example.com", "Sup3rSecret"); err != nil {
		t.Fatalf("setup: Signup() error = %v", err)
	}

	_, err := svc.Login(context.Background(), "alice", "WrongPass1")
	if err == nil {
		t.Fatal("Login() should error on wrong password")
	}
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "nobody", "Sup3rSecret")
	if err == nil {
		t.Fatal("Login() should error on unknown user")
	}
	// Unknown user and wrong password must be indistinguishable.
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_TokenIsVerifiable(t *testing.T) {
	svc, _ := newTestAuthService(t)

	admin, err := svc.Signup(context.Background(), "alice", "alice@example.com", "Sup3rSecret")
	if err != nil {
		t.Fatalf("setup: Signup() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "alice", "Sup3rSecret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars", 0)
	if err != nil {
		t.Fatalf("setup: NewTokenService() error = %v", err)
	}
	identity, err := tokens.Verify(result.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if identity.AdminID != admin.ID {
		t.Errorf("AdminID = %q, want %q", identity.AdminID, admin.ID)
	}
	if identity.Username != "alice" {
		t.Errorf("Username = %q, want %q", identity.Username, "alice")
	}
}

// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Handlers only know HTTP. Services only know business rules. Repositories
// only know SQL. Each layer receives the one below it as an interface, so
// tests swap in fakes and nothing imports across more than one boundary.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode"

	"github.com/sakif/foundry/internal/apperror"
	"github.com/sakif/foundry/internal/auth"
	"github.com/sakif/foundry/internal/model"
	"github.com/sakif/foundry/internal/repository"
)

// Signup constraint bounds. These mirror the database column sizes; the
// password bounds additionally keep inputs inside bcrypt's 72-byte limit
// with room to spare.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxEmailLength    = 100
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// AuthService implements signup, login, and principal lookup.
//
// DEPENDENCIES (injected via NewAuthService):
//   - admins     repository.AdminRepository → account persistence
//   - tokens     *auth.TokenService         → bearer token issue/verify
//   - passwords  *auth.PasswordService      → bcrypt hashing
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	admins    repository.AdminRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	admins repository.AdminRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		admins:    admins,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// LoginResult bundles the issued token with the authenticated admin so the
// handler can build the token response in one step.
type LoginResult struct {
	Token string
	Admin *model.Admin
}

// Signup registers a new admin account.
//
// VALIDATION ORDER:
// Constraint checks run first and fail with ValidationError (422) before
// the database is touched at all — an invalid signup never persists
// anything. The duplicate-identity check happens inside the repository as
// one combined username-OR-email lookup and maps to 400.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*model.Admin, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing signup password: %w", err)
	}

	admin := &model.Admin{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		Role:           "admin",
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		// DuplicateIdentity passes through untouched; anything else is a
		// storage failure worth logging.
		if !errors.Is(err, apperror.ErrConflict) {
			s.logger.Error("failed to create admin",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("admin registered", slog.String("username", username))

	return admin, nil
}

// Login authenticates a username/password pair and issues a bearer token.
//
// FAILURE IS DELIBERATELY UNIFORM:
// A wrong password and an unknown username both return the same
// Unauthorized error. Distinguishing the two would let anyone enumerate
// which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	admin, err := s.admins.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, apperror.Unauthorized("Invalid username or password")
	}

	if err := s.passwords.Verify(admin.HashedPassword, password); err != nil {
		return nil, apperror.Unauthorized("Invalid username or password")
	}

	token, err := s.tokens.Issue(admin.Username, admin.ID)
	if err != nil {
		s.logger.Error("failed to issue token",
			slog.String("username", admin.Username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/auth: issuing token for %s: %w", admin.Username, err)
	}

	s.logger.Info("admin logged in", slog.String("username", admin.Username))

	return &LoginResult{Token: token, Admin: admin}, nil
}

// validateUsername enforces 3–50 chars of letters, digits, '_' or '-'.
func validateUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d-%d characters", MinUsernameLength, MaxUsernameLength))
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return apperror.ValidationFailed("username",
				"username must be alphanumeric (with optional _ or -)")
		}
	}
	return nil
}

// validateEmail checks basic shape and length. mail.ParseAddress accepts
// anything RFC 5322 allows, which is looser than most web forms but catches
// the inputs that would corrupt an address column.
func validateEmail(email string) error {
	if email == "" || len(email) > MaxEmailLength {
		return apperror.ValidationFailed("email",
			fmt.Sprintf("email must be 1-%d characters", MaxEmailLength))
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperror.ValidationFailed("email", "email is not a valid address")
	}
	return nil
}

// validatePassword enforces 8–128 chars with at least one uppercase letter,
// one lowercase letter, and one digit.
func validatePassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d-%d characters", MinPasswordLength, MaxPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasUpper:
		return apperror.ValidationFailed("password", "password must contain at least one uppercase letter")
	case !hasLower:
		return apperror.ValidationFailed("password", "password must contain at least one lowercase letter")
	case !hasDigit:
		return apperror.ValidationFailed("password", "password must contain at least one digit")
	}
	return nil
}

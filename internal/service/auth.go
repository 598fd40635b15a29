// Package service contains the business logic layer of the application.
//
// The layering follows the usual shape:
//
//	Handler (HTTP)      → parses requests, writes responses
//	Service (this pkg)  → validates, enforces rules, orchestrates
//	Repository (data)   → reads/writes the database
//
// Services accept primitives and small input structs, never HTTP types, and
// return domain errors from internal/apperror — the handler translates
// those to status codes. Every dependency is an interface or injectable
// struct so tests swap in fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/model"
	"github.com/sakif/jobboard/internal/repository"
)

// Credential validation rules, mirroring what the frontend promises users.
const (
	MinNameLength     = 3
	MinPasswordLength = 6
)

// AuthService handles signup, login, and Google sign-in.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	google    auth.IDTokenVerifier
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// google may be nil when Google sign-in is not configured; GoogleLogin then
// fails cleanly.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	google auth.IDTokenVerifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		google:    google,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user with the issued session token
// so the handler can respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup registers a local-password account.
//
// Fails with Conflict when the email is already taken and ValidationFailed
// on malformed input. An unspecified role defaults to jobseeker. The new
// account is NOT logged in by this call — the client follows up with Login.
func (s *AuthService) Signup(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if len(name) < MinNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be at least %d characters", MinNameLength))
	}
	if !looksLikeEmail(email) {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if role == "" {
		role = model.RoleJobSeeker
	}
	if !role.Valid() {
		return nil, apperror.ValidationFailed("role", "role must be jobseeker or employer")
	}

	// Friendly pre-check before paying for the bcrypt hash. The UNIQUE
	// index on email still catches a concurrent signup that slips past.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("user already exists, please login")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Provider:     model.ProviderLocal,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user signed up",
		slog.String("userID", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// Login authenticates a local-password account and issues a session token.
//
// Every failure mode — unknown email, OAuth-only account with no password,
// wrong password — returns the same Unauthorized error, so a caller can't
// tell which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if user.PasswordHash == "" {
		// Google-only account — there is no password to compare
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// GoogleLogin verifies a Google ID token and signs the user in, creating
// the account on first login.
//
// Matching is by email: a fresh email gets a new google-provider account
// (with the supplied or default role); an existing account without Google
// linkage gets its GoogleID recorded and keeps its current role — the role
// parameter never overrides an existing account.
func (s *AuthService) GoogleLogin(ctx context.Context, rawIDToken string, role model.Role) (*AuthResult, error) {
	if s.google == nil {
		return nil, apperror.Unauthorized("google sign-in is not configured")
	}
	if rawIDToken == "" {
		return nil, apperror.ValidationFailed("token", "google token is required")
	}
	if role != "" && !role.Valid() {
		return nil, apperror.ValidationFailed("role", "role must be jobseeker or employer")
	}

	identity, err := s.google.Verify(ctx, rawIDToken)
	if err != nil {
		s.logger.Warn("google token verification failed", slog.String("error", err.Error()))
		return nil, apperror.Unauthorized("google authentication failed")
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(identity.Email))
	switch {
	case err == nil:
		// Known account. Link Google on first Google sign-in.
		if user.GoogleID == "" {
			if err := s.users.LinkGoogle(ctx, user.ID, identity.Sub); err != nil {
				return nil, fmt.Errorf("service/auth: linking google account: %w", err)
			}
			user.GoogleID = identity.Sub
		}
	case errors.Is(err, apperror.ErrNotFound):
		// First login — create the account
		if role == "" {
			role = model.RoleJobSeeker
		}
		user = &model.User{
			Name:     identity.Name,
			Email:    normalizeEmail(identity.Email),
			GoogleID: identity.Sub,
			Provider: model.ProviderGoogle,
			Role:     role,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("service/auth: creating google user: %w", err)
		}
		s.logger.Info("user created via google",
			slog.String("userID", user.ID),
			slog.String("role", string(user.Role)),
		)
	default:
		return nil, fmt.Errorf("service/auth: looking up google user: %w", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Me returns the current user record for the given internal ID. Used by
// GET /api/auth/me after the middleware validates the token — the record
// is fetched fresh, so the response reflects role changes even when the
// token's claims are stale.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// looksLikeEmail is a shallow shape check — real validation happens when
// mail actually gets delivered.
func looksLikeEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.Contains(email[at+1:], ".")
}

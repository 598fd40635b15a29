package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/sakif/jobboard/internal/apperror"
	"github.com/sakif/jobboard/internal/auth"
	"github.com/sakif/jobboard/internal/model"
)

// fakeUserRepo is an in-memory UserRepository for service tests — no
// database required.
type fakeUserRepo struct {
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.Conflict("user already exists, please login")
	}
	f.nextID++
	user.ID = "user-" + strconv.Itoa(f.nextID)
	copied := *user
	f.byID[user.ID] = &copied
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) LinkGoogle(_ context.Context, userID, googleID string) error {
	u, ok := f.byID[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.GoogleID = googleID
	return nil
}

// fakeVerifier returns a canned identity, or an error when err is set.
type fakeVerifier struct {
	identity *auth.GoogleUser
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*auth.GoogleUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(t *testing.T, users *fakeUserRepo, verifier auth.IDTokenVerifier) *AuthService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-please-ignore")
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	return NewAuthService(
		users,
		tokens,
		auth.NewPasswordServiceForTest(4),
		verifier,
		discardLogger(),
	)
}

// =========================================================================
// SIGNUP TESTS
// =========================================================================

func TestSignup(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users, nil)

	user, err := svc.Signup(context.Background(), "Jane Doe", "Jane@Example.com", "secret1", model.RoleEmployer)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.ID == "" {
		t.Error("Signup() did not assign an ID")
	}
	if user.Email != "jane@example.com" {
		t.Errorf("Email = %q, want lowercased %q", user.Email, "jane@example.com")
	}
	if user.Role != model.RoleEmployer {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleEmployer)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Error("Signup() must store a hash, not the raw password")
	}
	if user.Provider != model.ProviderLocal {
		t.Errorf("Provider = %q, want %q", user.Provider, model.ProviderLocal)
	}
}

func TestSignup_DefaultsToJobSeeker(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil)

	user, err := svc.Signup(context.Background(), "Jane Doe", "jane@example.com", "secret1", "")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if user.Role != model.RoleJobSeeker {
		t.Errorf("Role = %q, want default %q", user.Role, model.RoleJobSeeker)
	}
}

func TestSignup_ValidationRules(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil)

	tests := []struct {
		testName string
		name     string
		email    string
		password string
		role     model.Role
	}{
		{"short name", "Jo", "jo@example.com", "secret1", ""},
		{"bad email", "Jane Doe", "not-an-email", "secret1", ""},
		{"email without domain dot", "Jane Doe", "jane@localhost", "secret1", ""},
		{"short password", "Jane Doe", "jane@example.com", "12345", ""},
		{"unknown role", "Jane Doe", "jane@example.com", "secret1", "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.name, tt.email, tt.password, tt.role)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil)

	if _, err := svc.Signup(context.Background(), "Jane Doe", "jane@example.com", "secret1", ""); err != nil {
		t.Fatalf("first Signup() error = %v", err)
	}

	_, err := svc.Signup(context.Background(), "Jane Again", "jane@example.com", "secret2", "")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil)

	if _, err := svc.Signup(context.Background(), "Jane Doe", "jane@example.com", "secret1", ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	result, err := svc.Login(context.Background(), "JANE@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned an empty token")
	}
	if result.User.Email != "jane@example.com" {
		t.Errorf("User.Email = %q, want %q", result.User.Email, "jane@example.com")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil)

	if _, err := svc.Signup(context.Background(), "Jane Doe", "jane@example.com", "secret1", ""); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	_, err := svc.Login(context.Background(), "jane@example.com", "wrong-password")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	// Same message as a wrong password so emails cannot be enumerated
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "invalid email or password" {
		t.Errorf("message = %q, want the generic credentials message", appErr.Message)
	}
}

func TestLogin_GoogleOnlyAccountRejected(t *testing.T) {
	users := newFakeUserRepo()
	verifier := &fakeVerifier{identity: &auth.GoogleUser{
		Sub:   "google-sub-1",
		Email: "jane@example.com",
		Name:  "Jane Doe",
	}}
	svc := newTestAuthService(t, users, verifier)

	if _, err := svc.GoogleLogin(context.Background(), "raw-token", ""); err != nil {
		t.Fatalf("GoogleLogin() error = %v", err)
	}

	// No password was ever set, so a password login must fail
	_, err := svc.Login(context.Background(), "jane@example.com", "")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

// =========================================================================
// GOOGLE LOGIN TESTS
// =========================================================================

func TestGoogleLogin_CreatesAccountOnFirstLogin(t *testing.T) {
	users := newFakeUserRepo()
	verifier := &fakeVerifier{identity: &auth.GoogleUser{
		Sub:   "google-sub-1",
		Email: "jane@example.com",
		Name:  "Jane Doe",
	}}
	svc := newTestAuthService(t, users, verifier)

	result, err := svc.GoogleLogin(context.Background(), "raw-token", model.RoleEmployer)
	if err != nil {
		t.Fatalf("GoogleLogin() error = %v", err)
	}
	if result.Token == "" {
		t.Error("GoogleLogin() returned an empty token")
	}
	if result.User.Provider != model.ProviderGoogle {
		t.Errorf("Provider = %q, want %q", result.User.Provider, model.ProviderGoogle)
	}
	if result.User.GoogleID != "google-sub-1" {
		t.Errorf("GoogleID = %q, want the token subject", result.User.GoogleID)
	}
	if result.User.Role != model.RoleEmployer {
		t.Errorf("Role = %q, want the requested role on first login", result.User.Role)
	}
}

func TestGoogleLogin_LinksExistingLocalAccount(t *testing.T) {
	users := newFakeUserRepo()
	verifier := &fakeVerifier{identity: &auth.GoogleUser{
		Sub:   "google-sub-1",
		Email: "jane@example.com",
		Name:  "Jane From Google",
	}}
	svc := newTestAuthService(t, users, verifier)

	local, err := svc.Signup(context.Background(), "Jane Doe", "jane@example.com", "secret1", model.RoleEmployer)
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	result, err := svc.GoogleLogin(context.Background(), "raw-token", model.RoleJobSeeker)
	if err != nil {
		t.Fatalf("GoogleLogin() error = %v", err)
	}
	if result.User.ID != local.ID {
		t.Errorf("GoogleLogin() created a new account instead of reusing %s", local.ID)
	}
	if result.User.GoogleID != "google-sub-1" {
		t.Errorf("GoogleID = %q, want the account linked", result.User.GoogleID)
	}
	// The requested role never overrides an existing account
	if result.User.Role != model.RoleEmployer {
		t.Errorf("Role = %q, want original %q", result.User.Role, model.RoleEmployer)
	}
}

func TestGoogleLogin_BadToken(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("idtoken: invalid signature")}
	svc := newTestAuthService(t, newFakeUserRepo(), verifier)

	_, err := svc.GoogleLogin(context.Background(), "tampered", "")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestGoogleLogin_NotConfigured(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil)

	_, err := svc.GoogleLogin(context.Background(), "raw-token", "")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

// =========================================================================
// ME TESTS
// =========================================================================

func TestMe(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users, nil)

	created, err := svc.Signup(context.Background(), "Jane Doe", "jane@example.com", "secret1", "")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	found, err := svc.Me(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if found.Email != "jane@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "jane@example.com")
	}
}

func TestMe_Unknown(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo(), nil)

	_, err := svc.Me(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

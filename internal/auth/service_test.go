package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rootline/rootline-backend/internal/users"
	pkgAuth "github.com/rootline/rootline-backend/pkg/auth"
	"github.com/rootline/rootline-backend/pkg/auth/session"
	"github.com/rootline/rootline-backend/pkg/config"
	"github.com/rootline/rootline-backend/pkg/db/models"
	"github.com/rootline/rootline-backend/pkg/enums"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
	"github.com/rootline/rootline-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		AccessSecret:      "access-secret",
		RefreshSecret:     "refresh-secret",
		Issuer:            "rootline",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginIssuesTokenPair(t *testing.T) {
	password := "login-secret"
	user := testUser(t, password)

	svc, deps := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleUser {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatal("expected user payload in response")
	}
	if deps.sessions.generated != claims.ID {
		t.Fatalf("session keyed on %q, token jti %q", deps.sessions.generated, claims.ID)
	}
	if user.LastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := testUser(t, "right-password")
	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestServiceLoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	svc, _ := buildTestService(t, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "anything",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if typed.Message() != invalidCredentialsMessage {
		t.Fatalf("unknown email must not be distinguishable, got %q", typed.Message())
	}
}

func TestServiceLoginDisabledAccount(t *testing.T) {
	password := "disabled-secret"
	user := testUser(t, password)
	user.Status = enums.AccountStatusBanned
	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	password := "refresh-secret"
	user := testUser(t, password)
	svc, deps := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.AccessToken == login.AccessToken {
		t.Fatal("expected a fresh access token")
	}
	if resp.RefreshToken == login.RefreshToken {
		t.Fatal("expected a fresh refresh token")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.ID != deps.sessions.generated {
		t.Fatalf("rotated jti %q does not match session key %q", claims.ID, deps.sessions.generated)
	}

	// Old refresh token died during rotation.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized on replay, got %v", err)
	}
}

func TestServiceRefreshDisabledAccountRevokesSession(t *testing.T) {
	password := "refresh-disabled"
	user := testUser(t, password)
	svc, deps := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user.Status = enums.AccountStatusInactive
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if len(deps.sessions.tokens) != 0 {
		t.Fatal("expected rotated session to be revoked for disabled account")
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	password := "logout-secret"
	user := testUser(t, password)
	svc, deps := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := deps.sessions.tokens[claims.ID]; ok {
		t.Fatal("expected session removed on logout")
	}

	if err := svc.Logout(context.Background(), " "); pkgerrors.As(err) == nil {
		t.Fatal("expected error for blank access id")
	}
}

func TestServiceChangePassword(t *testing.T) {
	password := "old-password"
	user := testUser(t, password)
	svc, deps := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	err = svc.ChangePassword(context.Background(), user.ID, claims.ID, ChangePasswordRequest{
		CurrentPassword: "not-the-password",
		NewPassword:     "new-password-123",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for wrong current password, got %v", err)
	}

	err = svc.ChangePassword(context.Background(), user.ID, claims.ID, ChangePasswordRequest{
		CurrentPassword: password,
		NewPassword:     "new-password-123",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	ok, err := security.VerifyPassword("new-password-123", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected new password to verify, ok=%v err=%v", ok, err)
	}
	if _, live := deps.sessions.tokens[claims.ID]; live {
		t.Fatal("expected current session revoked after password change")
	}
}

func TestServiceForgotAndResetPassword(t *testing.T) {
	user := testUser(t, "forgotten")
	svc, deps := buildTestService(t, user)

	if err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: user.Email}); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if len(deps.tokens.data) != 1 {
		t.Fatalf("expected one stored reset token, got %d", len(deps.tokens.data))
	}

	var token string
	for key := range deps.tokens.data {
		token = key[len(deps.tokens.PasswordResetKey("")):]
	}

	if err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:       token,
		NewPassword: "reset-password-1",
	}); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	ok, err := security.VerifyPassword("reset-password-1", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected reset password to verify, ok=%v err=%v", ok, err)
	}

	// One-shot token is consumed.
	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:       token,
		NewPassword: "reset-password-2",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error on reuse, got %v", err)
	}
}

func TestServiceForgotPasswordUnknownEmailSilent(t *testing.T) {
	svc, deps := buildTestService(t, nil)

	if err := svc.ForgotPassword(context.Background(), ForgotPasswordRequest{Email: "ghost@example.com"}); err != nil {
		t.Fatalf("expected silent success, got %v", err)
	}
	if len(deps.tokens.data) != 0 {
		t.Fatal("no token should be stored for unknown email")
	}
}

func TestServiceVerifyEmail(t *testing.T) {
	user := testUser(t, "verify-me")
	svc, deps := buildTestService(t, user)

	token := "verify-token"
	deps.tokens.data[deps.tokens.EmailVerifyKey(token)] = user.ID.String()

	if err := svc.VerifyEmail(context.Background(), token); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if !user.EmailVerified {
		t.Fatal("expected email marked verified")
	}

	err := svc.VerifyEmail(context.Background(), token)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error on reused token, got %v", err)
	}
}

func TestServiceStatus(t *testing.T) {
	password := "status-secret"
	user := testUser(t, password)
	svc, _ := buildTestService(t, user)

	login, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := svc.Status(context.Background(), login.AccessToken)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !resp.Valid {
		t.Fatal("expected valid token")
	}
	if resp.UserID == nil || *resp.UserID != user.ID {
		t.Fatal("expected user id in status response")
	}

	resp, err = svc.Status(context.Background(), "garbage-token")
	if err != nil {
		t.Fatalf("status with garbage: %v", err)
	}
	if resp.Valid {
		t.Fatal("garbage token must not be valid")
	}
}

type testDeps struct {
	users    *stubUserRepo
	sessions *stubSessionManager
	tokens   *stubTokenStore
}

func buildTestService(t *testing.T, user *models.User) (Service, *testDeps) {
	t.Helper()
	deps := &testDeps{
		users:    &stubUserRepo{user: user},
		sessions: newStubSessionManager(),
		tokens:   newStubTokenStore(),
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       deps.users,
		SessionManager: deps.sessions,
		TokenStore:     deps.tokens,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: config.PasswordConfig{},
		TokenConfig: config.TokenConfig{
			EmailVerifyTTL:   time.Hour,
			PasswordResetTTL: time.Minute,
		},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, deps
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        "person@example.com",
		Username:     "person",
		DisplayName:  "Person Example",
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
		Status:       enums.AccountStatusActive,
	}
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

func (s *stubUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	if s.user == nil || s.user.ID != id {
		return gorm.ErrRecordNotFound
	}
	s.user.PasswordHash = hash
	return nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, updates users.UpdateProfileDTO) error {
	if s.user == nil || s.user.ID != id {
		return gorm.ErrRecordNotFound
	}
	if updates.Username != nil {
		s.user.Username = *updates.Username
	}
	if updates.DisplayName != nil {
		s.user.DisplayName = *updates.DisplayName
	}
	return nil
}

func (s *stubUserRepo) SetEmailVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	if s.user == nil || s.user.ID != id {
		return gorm.ErrRecordNotFound
	}
	s.user.EmailVerified = verified
	return nil
}

type stubSessionManager struct {
	tokens    map[string]string
	counter   int
	generated string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{tokens: make(map[string]string)}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.counter++
	token := uuid.NewString()
	s.tokens[accessID] = token
	s.generated = accessID
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	newAccessID := uuid.NewString()
	token, err := s.Generate(ctx, newAccessID)
	return newAccessID, token, err
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.tokens, accessID)
	return nil
}

func (s *stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	_, ok := s.tokens[accessID]
	return ok, nil
}

type stubTokenStore struct {
	data map[string]string
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{data: make(map[string]string)}
}

func (s *stubTokenStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.data[key] = value.(string)
	return nil
}

func (s *stubTokenStore) GetDel(ctx context.Context, key string) (string, error) {
	value, ok := s.data[key]
	if !ok {
		return "", redislib.Nil
	}
	delete(s.data, key)
	return value, nil
}

func (s *stubTokenStore) EmailVerifyKey(token string) string {
	return "token:verify:" + token
}

func (s *stubTokenStore) PasswordResetKey(token string) string {
	return "token:reset:" + token
}

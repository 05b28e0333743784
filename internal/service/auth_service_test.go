package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"k9vision/api/internal/config"
	"k9vision/api/internal/models"
	"k9vision/api/internal/security"
)

func newTestAuthService() (*AuthService, *memStore) {
	store := newMemStore()
	cfg := &config.AppConfig{}
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.SessionTTL = time.Hour

	return NewAuthService(store, cfg, zerolog.Nop()), store
}

func seedUser(t *testing.T, store *memStore, username string, password string, status models.UserStatus, role models.UserRole) int64 {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id, err := store.Users().Create(context.Background(), models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return id
}

func TestLogin_Success(t *testing.T) {
	svc, store := newTestAuthService()
	userID := seedUser(t, store, "alice", "s3cret-pass", models.UserStatusActive, models.UserRoleAdmin)

	token, user, err := svc.Login(context.Background(), "alice", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != userID {
		t.Fatalf("user id = %d, want %d", user.ID, userID)
	}

	claims, err := security.ParseSessionToken(token, "test-secret")
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != userID || claims.Username != "alice" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, store := newTestAuthService()
	seedUser(t, store, "alice", "s3cret-pass", models.UserStatusActive, models.UserRoleClient)

	_, _, err := svc.Login(context.Background(), "alice", "wrong-pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newTestAuthService()

	_, _, err := svc.Login(context.Background(), "nobody", "whatever-pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_PendingVerification(t *testing.T) {
	svc, store := newTestAuthService()
	seedUser(t, store, "alice", "s3cret-pass", models.UserStatusPendingVerification, models.UserRoleClient)

	// the password must check out first; only then is the status
	// surfaced, so the error does not leak credential validity
	_, _, err := svc.Login(context.Background(), "alice", "s3cret-pass")
	if !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}

	_, _, err = svc.Login(context.Background(), "alice", "wrong-pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
}

func TestCreateUser_DefaultsToClient(t *testing.T) {
	svc, _ := newTestAuthService()

	user, err := svc.CreateUser(context.Background(), "newbie", "s3cret-pass", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Role != models.UserRoleClient {
		t.Fatalf("role = %s, want client", user.Role)
	}
	if user.Status != models.UserStatusActive {
		t.Fatalf("admin-created user should be active, got %s", user.Status)
	}
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	svc, store := newTestAuthService()
	seedUser(t, store, "alice", "s3cret-pass", models.UserStatusActive, models.UserRoleClient)

	_, err := svc.CreateUser(context.Background(), "alice", "other-pass", models.UserRoleClient)
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"k9vision/api/internal/config"
	"k9vision/api/internal/models"
	"k9vision/api/internal/repository"
	"k9vision/api/internal/security"
)

type AuthService struct {
	store repository.Store
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(store repository.Store, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

// Login verifies credentials and issues a bearer session token. A
// pending_verification account cannot log in until the email is
// verified.
func (s *AuthService) Login(ctx context.Context, username string, password string) (string, models.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return "", models.User{}, ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return "", models.User{}, ErrEmailNotVerified
	}

	token, err := security.GenerateSessionToken(
		s.cfg.Security.JWTSecret,
		user.ID,
		user.Username,
		string(user.Role),
		s.cfg.Security.SessionTTL,
	)
	if err != nil {
		return "", models.User{}, err
	}

	return token, user, nil
}

// CreateUser is the admin-only account creation path. No verification
// token is involved; an admin vouching for the account implies trust.
func (s *AuthService) CreateUser(ctx context.Context, username string, password string, role models.UserRole) (models.User, error) {
	if role == "" {
		role = models.UserRoleClient
	}

	if _, err := s.store.Users().FindByUsername(ctx, username); err == nil {
		return models.User{}, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Status:       models.UserStatusActive,
	}

	id, err := s.store.Users().Create(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	user.ID = id

	return user, nil
}

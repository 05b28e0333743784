package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"k9vision/api/internal/models"
	"k9vision/api/internal/repository"
	"k9vision/api/internal/security"
)

// Mailer is the outbound transactional email capability. Sending is a
// black box here; a failure after token issuance is logged, not rolled
// back, because the client can always request a fresh token.
type Mailer interface {
	SendInvite(ctx context.Context, to string, clientName string, dogName string, token string) error
	SendVerification(ctx context.Context, to string, clientName string, token string) error
	SendPasswordReset(ctx context.Context, to string, token string, adminTriggered bool) error
}

// AccountService sequences the account lifecycle flows: self-register,
// invite and setup, email verification, and password resets. Every
// multi-statement flow runs inside one transaction so token consumption
// and the mutation it gates land together or not at all.
type AccountService struct {
	store repository.Store
	mail  Mailer
	log   zerolog.Logger
	now   func() time.Time
}

func NewAccountService(store repository.Store, mail Mailer, log zerolog.Logger) *AccountService {
	return &AccountService{
		store: store,
		mail:  mail,
		log:   log,
		now:   time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// issueToken creates one single-use token. It never retires earlier
// tokens; callers that want supersession invalidate explicitly first.
func (s *AccountService) issueToken(ctx context.Context, store repository.Store, typ models.TokenType, userID *int64, clientID *int64, email *string) (string, error) {
	ttl, err := typ.TTL()
	if err != nil {
		return "", err
	}

	value, err := security.NewAccountToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	token := models.AccountToken{
		Token:     value,
		Type:      typ,
		UserID:    userID,
		ClientID:  clientID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := store.Tokens().Insert(ctx, token); err != nil {
		return "", fmt.Errorf("insert %s token: %w", typ, err)
	}
	return value, nil
}

type SelfRegisterInput struct {
	ClientName string
	Email      string
	DogName    string
	DogBreed   *string
	DogAge     *int
	Username   string
	Password   string
}

// SelfRegister creates a pending_verification account with a client
// profile and emails a verification link. Registering again with the
// same email while still pending overwrites the earlier attempt in
// place, so a lost verification email is recoverable by retrying.
func (s *AccountService) SelfRegister(ctx context.Context, in SelfRegisterInput) error {
	in.Email = normalizeEmail(in.Email)

	var verifyToken string
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		inUse, err := tx.Users().ActiveEmailInUse(ctx, in.Email)
		if err != nil {
			return err
		}
		if inUse {
			return ErrEmailInUse
		}

		hash, err := security.HashPassword(in.Password)
		if err != nil {
			return err
		}

		var userID int64

		existing, err := tx.Users().FindByEmail(ctx, in.Email)
		switch {
		case err == nil && existing.Status == models.UserStatusPendingVerification:
			if other, err := tx.Users().FindByUsername(ctx, in.Username); err == nil {
				if other.ID != existing.ID {
					return ErrUsernameTaken
				}
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return err
			}

			if err := tx.Users().OverwritePending(ctx, existing.ID, in.Username, hash); err != nil {
				return err
			}
			if err := tx.Clients().UpdateProfileByUserID(ctx, existing.ID, in.ClientName, in.DogName, in.DogBreed, in.DogAge); err != nil {
				return err
			}

			// The verification link from the earlier attempt must not
			// remain redeemable once new credentials are in place.
			if err := tx.Tokens().Invalidate(ctx, models.TokenTypeEmailVerification, existing.ID, in.Email, s.now()); err != nil {
				return err
			}
			userID = existing.ID

		case err == nil:
			return ErrEmailInUse

		case errors.Is(err, repository.ErrUserNotFound):
			if _, err := tx.Users().FindByUsername(ctx, in.Username); err == nil {
				return ErrUsernameTaken
			} else if !errors.Is(err, repository.ErrUserNotFound) {
				return err
			}

			email := in.Email
			userID, err = tx.Users().Create(ctx, models.User{
				Username:     in.Username,
				Email:        &email,
				PasswordHash: hash,
				Role:         models.UserRoleClient,
				Status:       models.UserStatusPendingVerification,
			})
			if err != nil {
				return err
			}

			owner := userID
			if _, err := tx.Clients().Create(ctx, models.Client{
				UserID:     &owner,
				ClientName: in.ClientName,
				Email:      in.Email,
				DogName:    in.DogName,
				DogBreed:   in.DogBreed,
				DogAge:     in.DogAge,
			}); err != nil {
				return err
			}

		default:
			return err
		}

		verifyToken, err = s.issueToken(ctx, tx, models.TokenTypeEmailVerification, &userID, nil, &in.Email)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.mail.SendVerification(ctx, in.Email, in.ClientName, verifyToken); err != nil {
		s.log.Warn().Err(err).Str("email", in.Email).Msg("verification email send failed")
	}
	return nil
}

type InviteInput struct {
	ClientName string
	Email      string
	DogName    string
	DogBreed   *string
	DogAge     *int
}

// InviteClient creates an unlinked client profile and emails an invite
// token. The user account does not exist until setup-account redeems
// the token.
func (s *AccountService) InviteClient(ctx context.Context, in InviteInput) (int64, error) {
	in.Email = normalizeEmail(in.Email)

	var clientID int64
	var inviteToken string
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Clients().FindByEmail(ctx, in.Email); err == nil {
			return ErrClientEmailExists
		} else if !errors.Is(err, repository.ErrClientNotFound) {
			return err
		}

		var err error
		clientID, err = tx.Clients().Create(ctx, models.Client{
			ClientName: in.ClientName,
			Email:      in.Email,
			DogName:    in.DogName,
			DogBreed:   in.DogBreed,
			DogAge:     in.DogAge,
		})
		if err != nil {
			return err
		}

		inviteToken, err = s.issueToken(ctx, tx, models.TokenTypeInvite, nil, &clientID, &in.Email)
		return err
	})
	if err != nil {
		return 0, err
	}

	if err := s.mail.SendInvite(ctx, in.Email, in.ClientName, in.DogName, inviteToken); err != nil {
		s.log.Warn().Err(err).Str("email", in.Email).Msg("invite email send failed")
	}
	return clientID, nil
}

// SetupAccount redeems an invite token: the new user is created
// directly as active, the client profile is linked to it, and the token
// is consumed, all in one transaction.
func (s *AccountService) SetupAccount(ctx context.Context, token string, username string, password string) error {
	return s.store.InTx(ctx, func(tx repository.Store) error {
		now := s.now()

		tc, err := tx.Tokens().FindValid(ctx, token, models.TokenTypeInvite, now)
		if err != nil {
			if errors.Is(err, repository.ErrTokenNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		if _, err := tx.Users().FindByUsername(ctx, username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return err
		}

		hash, err := security.HashPassword(password)
		if err != nil {
			return err
		}

		email := tc.Email
		if tc.ClientEmail != nil {
			email = tc.ClientEmail
		}

		userID, err := tx.Users().Create(ctx, models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Role:         models.UserRoleClient,
			Status:       models.UserStatusActive,
		})
		if err != nil {
			return err
		}

		if tc.ClientID != nil {
			if err := tx.Clients().LinkUser(ctx, *tc.ClientID, userID); err != nil {
				return err
			}
		}

		used, err := tx.Tokens().Consume(ctx, token, now)
		if err != nil {
			return err
		}
		if !used {
			return ErrInvalidToken
		}
		return nil
	})
}

// VerifyEmail flips the token's owner from pending_verification to
// active and consumes the token.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	return s.store.InTx(ctx, func(tx repository.Store) error {
		now := s.now()

		tc, err := tx.Tokens().FindValid(ctx, token, models.TokenTypeEmailVerification, now)
		if err != nil {
			if errors.Is(err, repository.ErrTokenNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if tc.UserID == nil {
			return ErrInvalidToken
		}

		if err := tx.Users().UpdateStatus(ctx, *tc.UserID, models.UserStatusActive); err != nil {
			return err
		}

		used, err := tx.Tokens().Consume(ctx, token, now)
		if err != nil {
			return err
		}
		if !used {
			return ErrInvalidToken
		}
		return nil
	})
}

// ForgotPassword issues a reset token when the email matches an active
// account. It returns nil either way; the caller's response must not
// reveal whether the account exists.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	var resetToken string
	var found bool
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		user, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil
			}
			return err
		}
		if user.Status != models.UserStatusActive {
			return nil
		}
		found = true

		if err := tx.Tokens().Invalidate(ctx, models.TokenTypePasswordReset, user.ID, email, s.now()); err != nil {
			return err
		}

		resetToken, err = s.issueToken(ctx, tx, models.TokenTypePasswordReset, &user.ID, nil, &email)
		return err
	})
	if err != nil {
		return err
	}

	if found {
		if err := s.mail.SendPasswordReset(ctx, email, resetToken, false); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("reset email send failed")
		}
	}
	return nil
}

// ResetPassword redeems a reset token, then retires every other
// outstanding reset token for the same user in case several reset
// emails were requested.
func (s *AccountService) ResetPassword(ctx context.Context, token string, password string) error {
	return s.store.InTx(ctx, func(tx repository.Store) error {
		now := s.now()

		tc, err := tx.Tokens().FindValid(ctx, token, models.TokenTypePasswordReset, now)
		if err != nil {
			if errors.Is(err, repository.ErrTokenNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if tc.UserID == nil {
			return ErrInvalidToken
		}

		hash, err := security.HashPassword(password)
		if err != nil {
			return err
		}

		if err := tx.Users().UpdatePasswordHash(ctx, *tc.UserID, hash); err != nil {
			return err
		}

		used, err := tx.Tokens().Consume(ctx, token, now)
		if err != nil {
			return err
		}
		if !used {
			return ErrInvalidToken
		}

		return tx.Tokens().Invalidate(ctx, models.TokenTypePasswordReset, *tc.UserID, "", now)
	})
}

const (
	ResetModeEmail  = "email"
	ResetModeManual = "manual"
)

// AdminResetPassword lets an admin either re-run the email reset flow
// for a client or set a new password directly, bypassing token gating.
func (s *AccountService) AdminResetPassword(ctx context.Context, clientID int64, mode string, newPassword string) error {
	client, err := s.store.Clients().GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.UserID == nil {
		return ErrClientNotFound
	}
	userID := *client.UserID

	switch mode {
	case ResetModeEmail:
		var resetToken string
		err := s.store.InTx(ctx, func(tx repository.Store) error {
			if err := tx.Tokens().Invalidate(ctx, models.TokenTypePasswordReset, userID, client.Email, s.now()); err != nil {
				return err
			}
			var err error
			resetToken, err = s.issueToken(ctx, tx, models.TokenTypePasswordReset, &userID, nil, &client.Email)
			return err
		})
		if err != nil {
			return err
		}

		if err := s.mail.SendPasswordReset(ctx, client.Email, resetToken, true); err != nil {
			s.log.Warn().Err(err).Str("email", client.Email).Msg("admin reset email send failed")
		}
		return nil

	case ResetModeManual:
		hash, err := security.HashPassword(newPassword)
		if err != nil {
			return err
		}
		return s.store.Users().UpdatePasswordHash(ctx, userID, hash)

	default:
		return fmt.Errorf("unknown reset mode: %q", mode)
	}
}

// ValidateToken answers the public pre-flight check used by setup and
// reset pages. An invalid token is (nil, nil), never an error.
func (s *AccountService) ValidateToken(ctx context.Context, token string, typ models.TokenType) (*models.TokenContext, error) {
	tc, err := s.store.Tokens().FindValid(ctx, token, typ, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tc, nil
}

// DeleteClient removes a client profile and, when one is linked, its
// user account. Tokens, notes, and media rows go with them via cascade.
func (s *AccountService) DeleteClient(ctx context.Context, clientID int64) error {
	return s.store.InTx(ctx, func(tx repository.Store) error {
		client, err := tx.Clients().GetByID(ctx, clientID)
		if err != nil {
			return err
		}

		if err := tx.Clients().Delete(ctx, clientID); err != nil {
			return err
		}
		if client.UserID != nil {
			return tx.Users().Delete(ctx, *client.UserID)
		}
		return nil
	})
}

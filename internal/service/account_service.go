package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avsuhas/hoa-backend/internal/domain"
	"github.com/avsuhas/hoa-backend/internal/mail"
	"github.com/avsuhas/hoa-backend/internal/repository"
	"github.com/avsuhas/hoa-backend/internal/token"
)

// AccountService owns the account lifecycle: registration, login, approval,
// and the password flows. All durable state lives in the repository; every
// mutation runs inside a repository transaction.
type AccountService struct {
	users  repository.UserRepository
	tokens *token.Service
	mailer mail.Mailer
	logger *zap.Logger
}

// NewAccountService wires the account service.
func NewAccountService(users repository.UserRepository, tokens *token.Service, mailer mail.Mailer, logger *zap.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, mailer: mailer, logger: logger}
}

// RegisterInput carries self-registration fields. Role is not accepted here;
// self-registered accounts always start as residents.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     *string
}

// LoginResult is the login response envelope.
type LoginResult struct {
	AccessToken string
	TokenType   string
	User        domain.User
}

// Register creates a resident account. The duplicate check is advisory; the
// database unique constraint closes the race between check and insert.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return domain.User{}, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        in.Phone,
		PasswordHash: &hash,
		Role:         domain.RoleResident,
		IsActive:     true,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.sendAsync("welcome", created.Email, func() error {
		return s.mailer.SendWelcome(created)
	})

	s.audit("register.success", zap.Int64("user_id", created.ID))
	return created, nil
}

// Login verifies credentials and mints an access token. Unknown email and
// wrong password are indistinguishable; an inactive account is reported as
// such, an accepted tradeoff inherited from the API contract. Lookup, verify,
// active check, and the last-login stamp share one transaction, and the stamp
// writes only last_login_at so a concurrent deactivate or demotion is never
// clobbered by the snapshot read here.
func (s *AccountService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var user domain.User
	err := s.users.Transact(ctx, func(r repository.UserRepository) error {
		var err error
		user, err = r.GetByEmail(ctx, strings.TrimSpace(email))
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrInvalidCredentials
			}
			return fmt.Errorf("lookup user: %w", err)
		}

		if !user.HasPassword() || !verifyPassword(password, *user.PasswordHash) {
			return domain.ErrInvalidCredentials
		}

		if !user.IsActive {
			return domain.ErrInactiveUser
		}

		now := time.Now()
		if err := r.StampLastLogin(ctx, user.ID, now); err != nil {
			return fmt.Errorf("stamp last login: %w", err)
		}
		user.LastLoginAt = &now
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}

	signed, err := s.tokens.IssueAccess(user)
	if err != nil {
		return LoginResult{}, err
	}

	s.audit("login.success", zap.Int64("user_id", user.ID), zap.String("role", user.Role.String()))
	return LoginResult{AccessToken: signed, TokenType: "bearer", User: user}, nil
}

// ChangePassword rotates the caller's own password after verifying the
// current one. Read, verify, and write share one transaction so a concurrent
// deactivate cannot interleave.
func (s *AccountService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	err := s.users.Transact(ctx, func(r repository.UserRepository) error {
		user, err := r.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if !user.HasPassword() || !verifyPassword(currentPassword, *user.PasswordHash) {
			return domain.ErrBadPassword
		}
		hash, err := hashPassword(newPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = &hash
		_, err = r.Update(ctx, user)
		return err
	})
	if err != nil {
		return err
	}

	s.audit("change_password.success", zap.Int64("user_id", userID))
	return nil
}

// Approve promotes a pending user to an elevated role and issues a 24h
// set-password link. The token is both signed and persisted so the link can
// be invalidated independently of its expiry by clearing the stored copy.
func (s *AccountService) Approve(ctx context.Context, targetID int64, role domain.Role) (domain.User, error) {
	if !role.Elevatable() {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrRoleNotElevatable, role)
	}

	var (
		approved domain.User
		setup    string
	)
	err := s.users.Transact(ctx, func(r repository.UserRepository) error {
		user, err := r.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if user.IsActive {
			return domain.ErrUserActive
		}

		user.Role = role
		user.IsActive = false

		setup, err = s.tokens.IssueSetup(user)
		if err != nil {
			return err
		}
		expires := time.Now().Add(s.tokens.SetupTTL())
		user.PasswordResetToken = &setup
		user.PasswordResetExpires = &expires

		approved, err = r.Update(ctx, user)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	s.sendAsync("password_setup", approved.Email, func() error {
		return s.mailer.SendPasswordSetup(approved, setup)
	})

	s.audit("approve.success", zap.Int64("user_id", approved.ID), zap.String("role", role.String()))
	return approved, nil
}

// SetupPassword consumes a set-password link: the presented token must verify,
// carry the setup purpose, and match the stored copy byte for byte. Success
// activates the account and clears both reset columns so the link is dead.
func (s *AccountService) SetupPassword(ctx context.Context, setupToken, newPassword string) error {
	claims, err := s.tokens.Verify(setupToken)
	if err != nil {
		return err
	}
	if claims.Purpose != token.PurposeSetupPassword {
		return domain.ErrInvalidToken
	}
	userID, err := claims.UserID()
	if err != nil {
		return err
	}

	err = s.users.Transact(ctx, func(r repository.UserRepository) error {
		user, err := r.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.ErrInvalidToken
			}
			return err
		}
		if user.PasswordResetToken == nil ||
			subtle.ConstantTimeCompare([]byte(*user.PasswordResetToken), []byte(setupToken)) != 1 {
			return domain.ErrInvalidToken
		}
		if user.PasswordResetExpires == nil || time.Now().After(*user.PasswordResetExpires) {
			return domain.ErrInvalidToken
		}

		hash, err := hashPassword(newPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = &hash
		user.IsActive = true
		user.PasswordResetToken = nil
		user.PasswordResetExpires = nil

		_, err = r.Update(ctx, user)
		return err
	})
	if err != nil {
		return err
	}

	s.audit("setup_password.success", zap.Int64("user_id", userID))
	return nil
}

// sendAsync dispatches mail off the request path. Failures are logged and
// swallowed; delivery is never on the critical path for commit.
func (s *AccountService) sendAsync(kind, recipient string, send func() error) {
	go func() {
		if err := send(); err != nil {
			s.logger.Warn("email send failed",
				zap.String("kind", kind),
				zap.String("to", recipient),
				zap.Error(err),
			)
		}
	}()
}

func (s *AccountService) audit(event string, fields ...zap.Field) {
	s.logger.Info("audit: "+event, fields...)
}

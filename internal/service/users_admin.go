package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/avsuhas/hoa-backend/internal/domain"
	"github.com/avsuhas/hoa-backend/internal/repository"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// CreateUserInput carries admin user creation fields; the role is explicit.
type CreateUserInput struct {
	Email     string
	Password  *string
	FirstName string
	LastName  string
	Phone     *string
	Role      domain.Role
	IsActive  bool
}

// UpdateUserInput mutates profile and status fields. Nil means "leave as is".
// The password hash is deliberately absent; it has its own paths.
type UpdateUserInput struct {
	Email         *string
	FirstName     *string
	LastName      *string
	Phone         *string
	Role          *domain.Role
	IsActive      *bool
	EmailVerified *bool
}

// CreateUser provisions an account with an explicit role. Accounts created
// without a password cannot log in until one is set through approval.
func (s *AccountService) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	var hash *string
	if in.Password != nil && *in.Password != "" {
		h, err := hashPassword(*in.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("hash password: %w", err)
		}
		hash = &h
	}

	created, err := s.users.Create(ctx, domain.User{
		Email:        strings.TrimSpace(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     in.IsActive,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("user_create.success", zap.Int64("user_id", created.ID), zap.String("role", created.Role.String()))
	return created, nil
}

// ListUsers returns a filtered, paginated listing.
func (s *AccountService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.users.List(ctx, filter)
}

// GetUser loads a single account.
func (s *AccountService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateUser applies a partial profile update inside one transaction.
func (s *AccountService) UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (domain.User, error) {
	var updated domain.User
	err := s.users.Transact(ctx, func(r repository.UserRepository) error {
		user, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.Email != nil {
			user.Email = strings.TrimSpace(*in.Email)
		}
		if in.FirstName != nil {
			user.FirstName = strings.TrimSpace(*in.FirstName)
		}
		if in.LastName != nil {
			user.LastName = strings.TrimSpace(*in.LastName)
		}
		if in.Phone != nil {
			user.Phone = in.Phone
		}
		if in.Role != nil {
			user.Role = *in.Role
		}
		if in.IsActive != nil {
			user.IsActive = *in.IsActive
		}
		if in.EmailVerified != nil {
			user.EmailVerified = *in.EmailVerified
		}
		updated, err = r.Update(ctx, user)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("user_update.success", zap.Int64("user_id", id))
	return updated, nil
}

// DeleteUser removes an account outright. No soft delete.
func (s *AccountService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.audit("user_delete.success", zap.Int64("user_id", id))
	return nil
}

// SetActive flips the active flag. Idempotent; always stamps updated_at.
func (s *AccountService) SetActive(ctx context.Context, id int64, active bool) (domain.User, error) {
	var updated domain.User
	err := s.users.Transact(ctx, func(r repository.UserRepository) error {
		user, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		user.IsActive = active
		updated, err = r.Update(ctx, user)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	s.audit("user_set_active.success", zap.Int64("user_id", id), zap.Bool("active", active))
	return updated, nil
}

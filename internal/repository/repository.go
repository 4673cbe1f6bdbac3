package repository

import (
	"context"
	"time"

	"github.com/avsuhas/hoa-backend/internal/domain"
)

// UserFilter narrows List results. Zero values mean "no filter".
type UserFilter struct {
	Role     *domain.Role
	IsActive *bool
	Limit    int
	Offset   int
}

// UserRepository is the persistence boundary for accounts.
//
// Implementations must return domain.ErrUserNotFound for missing rows and
// domain.ErrEmailTaken for unique-email violations so services and handlers
// can match with errors.Is.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id int64) error

	// StampLastLogin writes only the last-login timestamp. Login uses this
	// instead of Update so a concurrent status or role change is never
	// overwritten by a stale snapshot.
	StampLastLogin(ctx context.Context, id int64, at time.Time) error

	// Transact runs fn against a repository bound to a single transaction.
	// Any error from fn rolls the transaction back.
	Transact(ctx context.Context, fn func(UserRepository) error) error
}

package domain

import "time"

// User represents an HOA account that can authenticate against the API.
type User struct {
	ID                   int64
	Email                string
	FirstName            string
	LastName             string
	Phone                *string
	PasswordHash         *string
	Role                 Role
	IsActive             bool
	EmailVerified        bool
	PasswordResetToken   *string
	PasswordResetExpires *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	LastLoginAt          *time.Time
}

// HasPassword reports whether a login credential has been set for the account.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

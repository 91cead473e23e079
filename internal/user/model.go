package user

import (
	"time"

	"github.com/shareloop/shareloop-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(apperror.KindNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(apperror.KindConflict, "email already used")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, "invalid email or password")
	ErrInactiveUser       = apperror.New(apperror.KindUnauthorized, "user is deactivated")
	ErrEmailRequired      = apperror.New(apperror.KindValidation, "email is required")
	ErrPasswordTooShort   = apperror.New(apperror.KindValidation, "password must be at least 8 characters")
)

// User is a registered actor: anyone who lists items or books them.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	IsActive     bool
	CreatedAt    time.Time
}

// Filter defines pagination for listing users.
type Filter struct {
	Page     int
	PageSize int
}

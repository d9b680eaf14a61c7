package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/home-services-backend/internal/auth"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.InvalidArgument("email is required")
	ErrNameRequired       = apperror.InvalidArgument("name is required")
	ErrPasswordTooShort   = apperror.InvalidArgument("password is too short")
	ErrRoleNotAllowed     = apperror.InvalidArgument("role must be customer or professional")
)

// User represents an account in the marketplace.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	Role         auth.Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Actor returns the identity the core operates on.
func (u *User) Actor() auth.Actor {
	return auth.Actor{ID: u.ID, Role: u.Role}
}

// PhoneNumber returns the phone or an empty string.
func (u *User) PhoneNumber() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}

// UserFilter defines filter options for listing users.
type UserFilter struct {
	Role     auth.Role
	Email    string
	Page     int
	PageSize int
}

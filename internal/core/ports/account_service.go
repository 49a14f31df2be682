package ports

import (
	"context"

	"github.com/cse-motors/dealership-system/internal/core/domain"
)

// RegisterInput carries a registration form submission. Validation tags are
// evaluated by the credential validator, which collects every violation
// rather than stopping at the first.
type RegisterInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required,min=2"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,strongpassword"`

	// RemoteIP is recorded in the audit trail, not validated.
	RemoteIP string `validate:"-"`
}

// LoginInput carries a login form submission. Password strength is
// deliberately not re-checked here: accounts registered under an older policy
// must still be able to log in.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`

	// RemoteIP is recorded in the audit trail, not validated.
	RemoteIP string `validate:"-"`
}

// UpdateProfileInput carries a profile update (no password fields).
type UpdateProfileInput struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required,min=2"`
	Email     string `validate:"required,email"`
}

// ChangePasswordInput carries a password change; the new password must meet
// the same strength rule as registration.
type ChangePasswordInput struct {
	Password string `validate:"required,strongpassword"`
}

// LoginResult bundles the issued session token with the authenticated
// account. The caller is responsible for transporting the token (HTTP-only
// cookie with max-age matching the token TTL).
type LoginResult struct {
	Token   string
	Account *domain.Account
}

// AccountService defines the account use-cases exposed to the route layer.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.Account, error)
	ChangePassword(ctx context.Context, id string, input ChangePasswordInput) error
}

package ports

import (
	"context"

	"github.com/cse-motors/dealership-system/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
//
// Email uniqueness is the store's own atomic check-and-insert constraint
// (a unique index), never an application-level read-then-write: two
// concurrent registrations with the same email cannot both succeed.
type AccountRepository interface {
	// Create inserts a new account and returns it with its assigned ID.
	// Returns domain.ErrDuplicateEmail when the normalized email is taken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)

	// FindByEmail looks up an account by its normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)

	FindByID(ctx context.Context, id string) (*domain.Account, error)

	// UpdateProfile sets first name, last name and email on an existing
	// account and returns the updated row. Returns domain.ErrAccountNotFound
	// or domain.ErrDuplicateEmail.
	UpdateProfile(ctx context.Context, id, firstName, lastName, email string) (*domain.Account, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

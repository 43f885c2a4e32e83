package ports

import (
	"context"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user aggregates.
type UserRepository interface {
	// Add persists a new user. The email must be unique.
	Add(ctx context.Context, aggregate *user.User) error

	// Update persists changes to an existing user only if its stored version
	// still matches the version the aggregate was loaded at.
	Update(ctx context.Context, aggregate *user.User) error

	// Delete removes a user by identifier.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get retrieves a user by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetByEmail retrieves a user by their login email.
	GetByEmail(ctx context.Context, email string) (*user.User, error)

	// GetAll retrieves all users ordered by email.
	GetAll(ctx context.Context) ([]*user.User, error)

	// ExistsByEmail reports whether any user already holds the email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountAdminsForUpdate counts administrator accounts while holding row
	// locks on them for the remainder of the transaction, so that the
	// last-administrator check and the write it guards are atomic.
	CountAdminsForUpdate(ctx context.Context) (int64, error)
}

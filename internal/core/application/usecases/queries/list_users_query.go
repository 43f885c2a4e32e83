package queries

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"logistics/internal/core/domain/model/user"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrListUsersQueryIsNotConstructed = errors.New(
	"ListUsersQuery must be created via NewListUsersQuery constructor",
)

// ListUsersQuery retrieves all accounts. Administrator only.
type ListUsersQuery struct {
	principal user.Principal

	guard guard.ConstructorGuard
}

// NewListUsersQuery creates a query to list all accounts on behalf of the
// authenticated principal.
func NewListUsersQuery(principal user.Principal) ListUsersQuery {
	return ListUsersQuery{principal: principal, guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ListUsersQuery) Validate() error {
	return q.guard.Validate(ErrListUsersQueryIsNotConstructed)
}

// ListUsersQueryHandler serves the account listing. Like single-account
// reads, listings are not cached because they feed administration screens
// where staleness is confusing and the query is cheap.
type ListUsersQueryHandler struct {
	db *gorm.DB
}

// NewListUsersQueryHandler creates a handler for account listings.
func NewListUsersQueryHandler(db *gorm.DB) ListUsersQueryHandler {
	return ListUsersQueryHandler{db: db}
}

// Handle returns all accounts ordered by email.
func (h ListUsersQueryHandler) Handle(ctx context.Context, query ListUsersQuery) ([]UserResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if !query.principal.IsAdmin() {
		return nil, errs.NewAccessDeniedError("only administrators can list accounts")
	}

	return scanUsers(ctx, h.db, `SELECT `+userColumns+` FROM users ORDER BY email`)
}

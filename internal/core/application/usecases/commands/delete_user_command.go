package commands

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/guard"
)

var ErrDeleteUserCommandIsNotConstructed = errors.New(
	"DeleteUserCommand must be created via NewDeleteUserCommand constructor",
)

// DeleteUserCommand represents a request to remove an account.
type DeleteUserCommand struct { //nolint:recvcheck //using for validation
	principal user.Principal
	userID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteUserCommand creates a command to delete an account on behalf of
// the authenticated principal.
func NewDeleteUserCommand(principal user.Principal, userID kernel.UUID) (DeleteUserCommand, error) {
	cmd := DeleteUserCommand{
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}

	if err := cmd.setUserID(userID); err != nil {
		return DeleteUserCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteUserCommand) Validate() error {
	return c.guard.Validate(ErrDeleteUserCommandIsNotConstructed)
}

// UserID returns the identifier of the account to delete.
func (c DeleteUserCommand) UserID() kernel.UUID { return c.userID }

func (c *DeleteUserCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

// DeleteUserCommandHandler handles account deletion. Deletion is
// administrator-only, never of one's own account, and the last administrator
// account cannot be removed.
type DeleteUserCommandHandler struct {
	uowFactory UserUoWFactory
	policy     services.AccessPolicy
	cache      ports.Cache
}

// NewDeleteUserCommandHandler creates a handler for account deletion.
func NewDeleteUserCommandHandler(uowFactory UserUoWFactory, policy services.AccessPolicy, cache ports.Cache) DeleteUserCommandHandler {
	return DeleteUserCommandHandler{uowFactory: uowFactory, policy: policy, cache: cache}
}

// Handle loads the target, authorizes the deletion and removes the account.
// The administrator count is read under row locks in the same transaction so
// two simultaneous deletions cannot both pass the last-administrator check.
func (h *DeleteUserCommandHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.UserRepository()
	target, err := repo.Get(ctx, cmd.userID)
	if err != nil {
		return err
	}

	adminCount := int64(0)
	if target.IsAdmin() {
		adminCount, err = repo.CountAdminsForUpdate(ctx)
		if err != nil {
			return err
		}
	}

	if err = h.policy.AuthorizeDelete(cmd.principal, target, adminCount); err != nil {
		return err
	}

	if err = repo.Delete(ctx, cmd.userID); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceUsers)

	return nil
}

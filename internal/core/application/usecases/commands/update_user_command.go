package commands

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrUpdateUserCommandIsNotConstructed = errors.New(
	"UpdateUserCommand must be created via NewUpdateUserCommand constructor",
)

// UpdateUserCommand represents a request to update an account. Administrators
// may update anyone including grants; everyone else may update only their own
// profile, and any role or permission changes in the request are ignored.
// An empty password keeps the current one.
type UpdateUserCommand struct { //nolint:recvcheck //using for validation
	principal   user.Principal
	userID      kernel.UUID
	email       string
	password    string
	firstName   string
	lastName    string
	roles       []string
	permissions []string

	guard guard.ConstructorGuard
}

// NewUpdateUserCommand creates a command to update an account on behalf of
// the authenticated principal.
func NewUpdateUserCommand(
	principal user.Principal,
	userID kernel.UUID,
	email string,
	password string,
	firstName string,
	lastName string,
	roles []string,
	permissions []string,
) (UpdateUserCommand, error) {
	cmd := UpdateUserCommand{
		principal:   principal,
		firstName:   firstName,
		lastName:    lastName,
		roles:       roles,
		permissions: permissions,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUserID(userID),
		cmd.setEmail(email),
		cmd.setPassword(password),
	); err != nil {
		return UpdateUserCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateUserCommand) Validate() error {
	return c.guard.Validate(ErrUpdateUserCommandIsNotConstructed)
}

// UserID returns the identifier of the account to update.
func (c UpdateUserCommand) UserID() kernel.UUID { return c.userID }

func (c *UpdateUserCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

func (c *UpdateUserCommand) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	c.email = email
	return nil
}

func (c *UpdateUserCommand) setPassword(password string) error {
	if password != "" && len(password) < minPasswordLength {
		return errs.NewValueIsInvalidErrorWithCause("password",
			fmt.Errorf("must be at least %d characters", minPasswordLength))
	}
	c.password = password
	return nil
}

// UpdateUserCommandHandler handles account updates, including the protection
// of the last administrator against demotion.
type UpdateUserCommandHandler struct {
	uowFactory UserUoWFactory
	policy     services.AccessPolicy
	cache      ports.Cache
}

// NewUpdateUserCommandHandler creates a handler for account updates.
func NewUpdateUserCommandHandler(uowFactory UserUoWFactory, policy services.AccessPolicy, cache ports.Cache) UpdateUserCommandHandler {
	return UpdateUserCommandHandler{uowFactory: uowFactory, policy: policy, cache: cache}
}

// Handle loads the target account, authorizes the change and applies it.
// When the change would take the administrator role away from the target, the
// administrator count is read under row locks in the same transaction so two
// simultaneous demotions cannot both pass the last-administrator check.
func (h *UpdateUserCommandHandler) Handle(ctx context.Context, cmd UpdateUserCommand) error {
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

	canChangeGrants, err := h.policy.AuthorizeUpdate(cmd.principal, target)
	if err != nil {
		return err
	}

	if canChangeGrants {
		adminCount := int64(0)
		if target.IsAdmin() {
			adminCount, err = repo.CountAdminsForUpdate(ctx)
			if err != nil {
				return err
			}
		}

		if err = h.policy.AuthorizeRoleChange(target, cmd.roles, adminCount); err != nil {
			return err
		}

		target.SetRoles(cmd.roles)
		target.SetPermissions(cmd.permissions)
	}

	if err = target.UpdateProfile(cmd.email, cmd.firstName, cmd.lastName); err != nil {
		return err
	}

	if cmd.password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(cmd.password), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		if err = target.ChangePasswordHash(string(hash)); err != nil {
			return err
		}
	}

	if err = repo.Update(ctx, target); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceUsers)

	return nil
}

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

var ErrCreateUserCommandIsNotConstructed = errors.New(
	"CreateUserCommand must be created via NewCreateUserCommand constructor",
)

const minPasswordLength = 8

// CreateUserCommand represents a request to register a new account.
// The password travels in plain text only as far as this command; the handler
// stores a bcrypt hash.
type CreateUserCommand struct { //nolint:recvcheck //using for validation
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

// NewCreateUserCommand creates a command to register a new user on behalf of
// the authenticated principal.
func NewCreateUserCommand(
	principal user.Principal,
	userID kernel.UUID,
	email string,
	password string,
	firstName string,
	lastName string,
	roles []string,
	permissions []string,
) (CreateUserCommand, error) {
	cmd := CreateUserCommand{
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
		return CreateUserCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateUserCommand) Validate() error {
	return c.guard.Validate(ErrCreateUserCommandIsNotConstructed)
}

// UserID returns the identifier the new account will be stored under.
func (c CreateUserCommand) UserID() kernel.UUID { return c.userID }

// Email returns the login email for the new account.
func (c CreateUserCommand) Email() string { return c.email }

func (c *CreateUserCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	c.userID = userID
	return nil
}

func (c *CreateUserCommand) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	c.email = email
	return nil
}

func (c *CreateUserCommand) setPassword(password string) error {
	if password == "" {
		return errs.NewValueIsRequiredError("password")
	}
	if len(password) < minPasswordLength {
		return errs.NewValueIsInvalidErrorWithCause("password",
			fmt.Errorf("must be at least %d characters", minPasswordLength))
	}
	c.password = password
	return nil
}

// CreateUserCommandHandler handles account registration. Granting the
// administrator role requires the principal to be an administrator.
type CreateUserCommandHandler struct {
	uowFactory UserUoWFactory
	policy     services.AccessPolicy
	cache      ports.Cache
}

// NewCreateUserCommandHandler creates a handler for account registration.
func NewCreateUserCommandHandler(uowFactory UserUoWFactory, policy services.AccessPolicy, cache ports.Cache) CreateUserCommandHandler {
	return CreateUserCommandHandler{uowFactory: uowFactory, policy: policy, cache: cache}
}

// Handle authorizes the request, hashes the password and persists the account.
// A duplicate email is rejected before the insert is attempted.
func (h *CreateUserCommandHandler) Handle(ctx context.Context, cmd CreateUserCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.policy.AuthorizeCreate(cmd.principal, cmd.roles); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	aggregate, err := user.NewUser(cmd.userID, cmd.email, string(hash),
		cmd.firstName, cmd.lastName, cmd.roles, cmd.permissions)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.UserRepository()
	exists, err := repo.ExistsByEmail(ctx, aggregate.Email())
	if err != nil {
		return err
	}
	if exists {
		return errs.NewInvalidStateError(
			fmt.Sprintf("email %s is already registered", aggregate.Email()))
	}

	if err = repo.Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceUsers)

	return nil
}

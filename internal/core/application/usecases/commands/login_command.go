package commands

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
	"logistics/internal/pkg/token"
)

var ErrLoginCommandIsNotConstructed = errors.New(
	"LoginCommand must be created via NewLoginCommand constructor",
)

// LoginCommand represents an authentication attempt with email and password.
type LoginCommand struct { //nolint:recvcheck //using for validation
	email    string
	password string

	guard guard.ConstructorGuard
}

// NewLoginCommand creates a command to authenticate a user.
func NewLoginCommand(email, password string) (LoginCommand, error) {
	cmd := LoginCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setEmail(email),
		cmd.setPassword(password),
	); err != nil {
		return LoginCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c LoginCommand) Validate() error {
	return c.guard.Validate(ErrLoginCommandIsNotConstructed)
}

// Email returns the login email.
func (c LoginCommand) Email() string { return c.email }

func (c *LoginCommand) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}
	c.email = email
	return nil
}

func (c *LoginCommand) setPassword(password string) error {
	if password == "" {
		return errs.NewValueIsRequiredError("password")
	}
	c.password = password
	return nil
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Roles     []string
}

// LoginCommandHandler authenticates credentials and issues a signed token.
// Unknown emails, wrong passwords and deactivated accounts all produce the
// same credential error so the response does not leak which part failed.
type LoginCommandHandler struct {
	uowFactory UserUoWFactory
	tokens     *token.Service
}

// NewLoginCommandHandler creates a handler for authentication.
func NewLoginCommandHandler(uowFactory UserUoWFactory, tokens *token.Service) LoginCommandHandler {
	return LoginCommandHandler{uowFactory: uowFactory, tokens: tokens}
}

// Handle verifies the credentials, records the login time and issues a token.
func (h *LoginCommandHandler) Handle(ctx context.Context, cmd LoginCommand) (LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return LoginResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return LoginResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.UserRepository()
	account, err := repo.GetByEmail(ctx, cmd.email)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return LoginResult{}, errs.NewTokenInvalidError("invalid credentials")
		}
		return LoginResult{}, err
	}

	if !account.Active() {
		return LoginResult{}, errs.NewTokenInvalidError("invalid credentials")
	}

	if err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash()), []byte(cmd.password)); err != nil {
		return LoginResult{}, errs.NewTokenInvalidError("invalid credentials")
	}

	account.RecordLogin(time.Now().UTC())
	if err = repo.Update(ctx, account); err != nil {
		return LoginResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return LoginResult{}, err
	}

	signed, err := h.tokens.Issue(account.ID().String(), account.Email())
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Token:     signed,
		UserID:    account.ID().String(),
		Email:     account.Email(),
		FirstName: account.FirstName(),
		LastName:  account.LastName(),
		Roles:     account.Roles(),
	}, nil
}

package cmd

import (
	"context"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
)

// EnsureAdminAccount seeds the initial administrator when no active
// administrator exists yet, so the at-least-one-admin invariant holds from
// the first boot. The admin count is read under the repository's admin guard
// lock, which is held until the transaction ends, so concurrently starting
// instances cannot both seed.
func (c *CompositionRoot) EnsureAdminAccount(ctx context.Context, configs Config, logger *slog.Logger) error {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	users := uow.UserRepository()

	admins, err := users.CountAdminsForUpdate(ctx)
	if err != nil {
		return err
	}
	if admins > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(configs.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account, err := user.NewUser(
		kernel.NewUUID(),
		configs.AdminEmail,
		string(hash),
		"System",
		"Administrator",
		[]string{user.RoleAdmin},
		nil,
	)
	if err != nil {
		return err
	}

	if err = users.Add(ctx, account); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Seeded initial administrator account", "email", account.Email())
	return nil
}

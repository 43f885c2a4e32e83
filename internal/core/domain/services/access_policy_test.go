package services_test

import (
	"testing"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeUser(t *testing.T, roles ...string) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), "target@example.com", "hash",
		"Taylor", "Reed", roles, nil)
	require.NoError(t, err)
	return u
}

func adminPrincipal() user.Principal {
	return user.Principal{ID: kernel.NewUUID(), Email: "admin@example.com", Roles: []string{user.RoleAdmin}}
}

func plainPrincipal() user.Principal {
	return user.Principal{ID: kernel.NewUUID(), Email: "plain@example.com", Roles: []string{"USER"}}
}

func TestAccessPolicy_AuthorizeCreate(t *testing.T) {
	policy := services.NewAccessPolicy()

	t.Run("admin_creates_admin", func(t *testing.T) {
		err := policy.AuthorizeCreate(adminPrincipal(), []string{user.RoleAdmin})

		require.NoError(t, err)
	})

	t.Run("non_admin_cannot_grant_admin_role", func(t *testing.T) {
		err := policy.AuthorizeCreate(plainPrincipal(), []string{user.RoleAdmin})

		require.ErrorIs(t, err, errs.ErrAccessDenied)
	})

	t.Run("non_admin_creates_plain_user", func(t *testing.T) {
		err := policy.AuthorizeCreate(plainPrincipal(), []string{"USER"})

		require.NoError(t, err)
	})
}

func TestAccessPolicy_AuthorizeUpdate(t *testing.T) {
	policy := services.NewAccessPolicy()

	t.Run("admin_updates_anyone_with_grants", func(t *testing.T) {
		canChangeGrants, err := policy.AuthorizeUpdate(adminPrincipal(), makeUser(t, "USER"))

		require.NoError(t, err)
		assert.True(t, canChangeGrants)
	})

	t.Run("self_update_without_grant_changes", func(t *testing.T) {
		target := makeUser(t, "USER")
		principal := target.Principal()

		canChangeGrants, err := policy.AuthorizeUpdate(principal, target)

		require.NoError(t, err)
		assert.False(t, canChangeGrants, "self-service updates keep existing grants")
	})

	t.Run("non_admin_cannot_update_others", func(t *testing.T) {
		_, err := policy.AuthorizeUpdate(plainPrincipal(), makeUser(t, "USER"))

		require.ErrorIs(t, err, errs.ErrAccessDenied)
	})
}

func TestAccessPolicy_AuthorizeRoleChange(t *testing.T) {
	policy := services.NewAccessPolicy()

	t.Run("demoting_last_admin_is_blocked", func(t *testing.T) {
		err := policy.AuthorizeRoleChange(makeUser(t, user.RoleAdmin), []string{"USER"}, 1)

		require.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("demoting_one_of_many_admins_is_allowed", func(t *testing.T) {
		err := policy.AuthorizeRoleChange(makeUser(t, user.RoleAdmin), []string{"USER"}, 2)

		require.NoError(t, err)
	})

	t.Run("keeping_admin_role_is_allowed", func(t *testing.T) {
		err := policy.AuthorizeRoleChange(makeUser(t, user.RoleAdmin), []string{user.RoleAdmin, "USER"}, 1)

		require.NoError(t, err)
	})

	t.Run("non_admin_target_is_unaffected", func(t *testing.T) {
		err := policy.AuthorizeRoleChange(makeUser(t, "USER"), []string{}, 1)

		require.NoError(t, err)
	})
}

func TestAccessPolicy_AuthorizeDelete(t *testing.T) {
	policy := services.NewAccessPolicy()

	t.Run("admin_deletes_plain_user", func(t *testing.T) {
		err := policy.AuthorizeDelete(adminPrincipal(), makeUser(t, "USER"), 1)

		require.NoError(t, err)
	})

	t.Run("non_admin_cannot_delete", func(t *testing.T) {
		err := policy.AuthorizeDelete(plainPrincipal(), makeUser(t, "USER"), 1)

		require.ErrorIs(t, err, errs.ErrAccessDenied)
	})

	t.Run("self_deletion_is_blocked", func(t *testing.T) {
		target := makeUser(t, user.RoleAdmin)
		principal := target.Principal()

		err := policy.AuthorizeDelete(principal, target, 2)

		require.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("deleting_last_admin_is_blocked", func(t *testing.T) {
		err := policy.AuthorizeDelete(adminPrincipal(), makeUser(t, user.RoleAdmin), 1)

		require.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("deleting_one_of_many_admins_is_allowed", func(t *testing.T) {
		err := policy.AuthorizeDelete(adminPrincipal(), makeUser(t, user.RoleAdmin), 2)

		require.NoError(t, err)
	})
}

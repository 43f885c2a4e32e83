package user_test

import (
	"testing"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T, roles ...string) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), "jordan@example.com", "$2a$10$hash",
		"Jordan", "Smith", roles, []string{"inventory:read"})
	require.NoError(t, err)
	return u
}

func TestNewUser(t *testing.T) {
	t.Run("creates_active_user_at_version_one", func(t *testing.T) {
		u := newTestUser(t, "USER")

		assert.True(t, u.Active())
		assert.Equal(t, int64(1), u.Version())
		assert.Nil(t, u.LastLogin())
		assert.Equal(t, []string{"USER"}, u.Roles())
	})

	t.Run("lowercases_email", func(t *testing.T) {
		u, err := user.NewUser(kernel.NewUUID(), "Jordan@Example.COM", "hash",
			"Jordan", "Smith", nil, nil)

		require.NoError(t, err)
		assert.Equal(t, "jordan@example.com", u.Email())
	})

	t.Run("deduplicates_and_sorts_roles", func(t *testing.T) {
		u := newTestUser(t, "USER", "ADMIN", "USER", " ")

		assert.Equal(t, []string{"ADMIN", "USER"}, u.Roles())
	})

	t.Run("rejects_missing_email", func(t *testing.T) {
		_, err := user.NewUser(kernel.NewUUID(), "", "hash", "Jordan", "Smith", nil, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects_malformed_email", func(t *testing.T) {
		_, err := user.NewUser(kernel.NewUUID(), "not-an-email", "hash", "Jordan", "Smith", nil, nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_missing_password_hash", func(t *testing.T) {
		_, err := user.NewUser(kernel.NewUUID(), "jordan@example.com", "", "Jordan", "Smith", nil, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestUser_Roles(t *testing.T) {
	t.Run("is_admin", func(t *testing.T) {
		assert.True(t, newTestUser(t, user.RoleAdmin).IsAdmin())
		assert.False(t, newTestUser(t, "USER").IsAdmin())
	})

	t.Run("set_roles_replaces_set", func(t *testing.T) {
		u := newTestUser(t, "USER")

		u.SetRoles([]string{user.RoleAdmin})

		assert.Equal(t, []string{user.RoleAdmin}, u.Roles())
		assert.True(t, u.HasRole(user.RoleAdmin))
		assert.False(t, u.HasRole("USER"))
	})
}

func TestUser_UpdateProfile(t *testing.T) {
	t.Run("replaces_name_and_email", func(t *testing.T) {
		u := newTestUser(t, "USER")

		err := u.UpdateProfile("new@example.com", "Sam", "Jones")

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", u.Email())
		assert.Equal(t, "Sam", u.FirstName())
	})

	t.Run("invalid_email_leaves_user_unchanged", func(t *testing.T) {
		u := newTestUser(t, "USER")

		err := u.UpdateProfile("broken", "Sam", "Jones")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, "jordan@example.com", u.Email())
		assert.Equal(t, "Jordan", u.FirstName())
	})
}

func TestUser_RecordLogin(t *testing.T) {
	u := newTestUser(t, "USER")
	at := time.Now().UTC()

	u.RecordLogin(at)

	require.NotNil(t, u.LastLogin())
	assert.Equal(t, at, *u.LastLogin())
}

func TestUser_MarkPersisted(t *testing.T) {
	u := newTestUser(t, "USER")
	at := time.Now().UTC()

	u.MarkPersisted(at)

	assert.Equal(t, int64(2), u.Version())
	assert.Equal(t, at, u.UpdatedAt())
}

func TestUser_Principal(t *testing.T) {
	u := newTestUser(t, user.RoleAdmin)

	p := u.Principal()

	assert.True(t, p.IsAdmin())
	assert.True(t, p.IsSelf(u.ID()))
	assert.False(t, p.IsSelf(kernel.NewUUID()))
	assert.Equal(t, u.Email(), p.Email)
}

func TestRestoreUser(t *testing.T) {
	id := kernel.NewUUID()
	created := time.Now().UTC().Add(-time.Hour)
	login := time.Now().UTC()

	u, err := user.RestoreUser(id, "jordan@example.com", "hash", "Jordan", "Smith",
		[]string{"USER"}, nil, false, &login, 4, created, created)

	require.NoError(t, err)
	assert.False(t, u.Active())
	assert.Equal(t, int64(4), u.Version())
	require.NotNil(t, u.LastLogin())
	require.NoError(t, u.Validate())
}

func TestUser_Validate(t *testing.T) {
	var u user.User

	require.ErrorIs(t, u.Validate(), user.ErrUserIsNotConstructed)
}

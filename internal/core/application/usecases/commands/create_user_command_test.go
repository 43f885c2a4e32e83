package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

func TestNewCreateUserCommand(t *testing.T) {
	t.Run("rejects_short_password", func(t *testing.T) {
		_, err := commands.NewCreateUserCommand(admin(), kernel.NewUUID(),
			"new@example.com", "short", "Sam", "Jones", nil, nil)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_missing_email", func(t *testing.T) {
		_, err := commands.NewCreateUserCommand(admin(), kernel.NewUUID(),
			"", "long-enough-password", "Sam", "Jones", nil, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestCreateUserCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateUserCommand(admin(), kernel.NewUUID(),
		"new@example.com", "long-enough-password", "Sam", "Jones", []string{"USER"}, nil)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	uow := new(MockUserUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(repo).Once(),
		repo.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*user.User")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUserUoWFactory)
	factory.On("Create").Return(uow).Once()
	cache := &FakeCache{}

	h := commands.NewCreateUserCommandHandler(factory, services.NewAccessPolicy(), cache)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, []string{ports.CacheNamespaceUsers}, cache.Invalidated)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateUserCommandHandler_Handle_NonAdminCannotGrantAdmin(t *testing.T) {
	ctx := t.Context()
	plain := user.Principal{ID: kernel.NewUUID(), Email: "plain@example.com", Roles: []string{"USER"}}
	cmd, err := commands.NewCreateUserCommand(plain, kernel.NewUUID(),
		"new@example.com", "long-enough-password", "Sam", "Jones", []string{user.RoleAdmin}, nil)
	require.NoError(t, err)

	factory := new(MockUserUoWFactory)

	h := commands.NewCreateUserCommandHandler(factory, services.NewAccessPolicy(), &FakeCache{})
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrAccessDenied)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateUserCommandHandler_Handle_DuplicateEmail(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateUserCommand(admin(), kernel.NewUUID(),
		"taken@example.com", "long-enough-password", "Sam", "Jones", nil, nil)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	uow := new(MockUserUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(repo).Once(),
		repo.On("ExistsByEmail", mock.Anything, "taken@example.com").Return(true, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUserUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateUserCommandHandler(factory, services.NewAccessPolicy(), &FakeCache{})
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

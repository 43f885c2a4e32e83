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

func TestDeleteUserCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	target := storedUser(t, id, "USER")
	cmd, err := commands.NewDeleteUserCommand(admin(), id)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	uow := new(MockUserUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(target, nil).Once(),
		repo.On("Delete", mock.Anything, id).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUserUoWFactory)
	factory.On("Create").Return(uow).Once()
	cache := &FakeCache{}

	h := commands.NewDeleteUserCommandHandler(factory, services.NewAccessPolicy(), cache)
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, []string{ports.CacheNamespaceUsers}, cache.Invalidated)
	repo.AssertNotCalled(t, "CountAdminsForUpdate", mock.Anything)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestDeleteUserCommandHandler_Handle_LastAdminBlocked(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	target := storedUser(t, id, user.RoleAdmin)
	cmd, err := commands.NewDeleteUserCommand(admin(), id)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	uow := new(MockUserUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(target, nil).Once(),
		repo.On("CountAdminsForUpdate", mock.Anything).Return(int64(1), nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUserUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeleteUserCommandHandler(factory, services.NewAccessPolicy(), &FakeCache{})
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUserCommandHandler_Handle_SelfDeletionBlocked(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	target := storedUser(t, id, user.RoleAdmin)
	cmd, err := commands.NewDeleteUserCommand(target.Principal(), id)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	uow := new(MockUserUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(target, nil).Once(),
		repo.On("CountAdminsForUpdate", mock.Anything).Return(int64(3), nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUserUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeleteUserCommandHandler(factory, services.NewAccessPolicy(), &FakeCache{})
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteUserCommandHandler_Handle_NonAdminDenied(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	target := storedUser(t, id, "USER")
	stranger := user.Principal{ID: kernel.NewUUID(), Email: "other@example.com", Roles: []string{"USER"}}
	cmd, err := commands.NewDeleteUserCommand(stranger, id)
	require.NoError(t, err)

	repo := new(MockUserRepository)
	uow := new(MockUserUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("UserRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(target, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUserUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeleteUserCommandHandler(factory, services.NewAccessPolicy(), &FakeCache{})
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrAccessDenied)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

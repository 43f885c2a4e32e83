package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/inventory"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

func stockedItem(t *testing.T, id kernel.UUID) *inventory.Item {
	t.Helper()
	item, err := inventory.NewItem(id, "Pallet jack", "", 25,
		kernel.NewMoneyFromCents(14900), "equipment", "A-01-03", "SKU-PJ-001", 5)
	require.NoError(t, err)
	return item
}

func TestNewChangeInventoryQuantityCommand(t *testing.T) {
	t.Run("rejects_negative_quantity", func(t *testing.T) {
		_, err := commands.NewChangeInventoryQuantityCommand(kernel.NewUUID(), -1)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects_missing_id", func(t *testing.T) {
		_, err := commands.NewChangeInventoryQuantityCommand(kernel.UUID{}, 10)

		require.Error(t, err)
	})
}

func TestChangeInventoryQuantityCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewChangeInventoryQuantityCommand(id, 3)
	item := stockedItem(t, id)

	repo := new(MockInventoryRepository)
	uow := new(MockInventoryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("InventoryRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(item, nil).Once(),
		repo.On("Update", mock.Anything, item).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockInventoryUoWFactory)
	factory.On("Create").Return(uow).Once()
	cache := &FakeCache{}

	h := commands.NewChangeInventoryQuantityCommandHandler(factory, cache)
	err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity())
	assert.Equal(t, []string{ports.CacheNamespaceInventory}, cache.Invalidated)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestChangeInventoryQuantityCommandHandler_Handle_ConcurrentModification(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewChangeInventoryQuantityCommand(id, 3)
	item := stockedItem(t, id)
	conflict := errs.NewConcurrentModificationError("item", id, item.Version())

	repo := new(MockInventoryRepository)
	uow := new(MockInventoryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("InventoryRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(item, nil).Once(),
		repo.On("Update", mock.Anything, item).Return(conflict).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockInventoryUoWFactory)
	factory.On("Create").Return(uow).Once()
	cache := &FakeCache{}

	h := commands.NewChangeInventoryQuantityCommandHandler(factory, cache)
	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	assert.Empty(t, cache.Invalidated, "a failed write must not invalidate the cache")
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestChangeInventoryQuantityCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewChangeInventoryQuantityCommand(id, 3)

	repo := new(MockInventoryRepository)
	uow := new(MockInventoryUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("InventoryRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("item", id)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockInventoryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewChangeInventoryQuantityCommandHandler(factory, &FakeCache{})
	err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

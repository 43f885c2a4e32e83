package commands

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/guard"
)

var ErrDeleteInventoryItemCommandIsNotConstructed = errors.New(
	"DeleteInventoryItemCommand must be created via NewDeleteInventoryItemCommand constructor",
)

// DeleteInventoryItemCommand represents a request to remove an inventory item.
type DeleteInventoryItemCommand struct { //nolint:recvcheck //using for validation
	itemID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteInventoryItemCommand creates a command to delete an inventory item.
func NewDeleteInventoryItemCommand(itemID kernel.UUID) (DeleteInventoryItemCommand, error) {
	cmd := DeleteInventoryItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setItemID(itemID); err != nil {
		return DeleteInventoryItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteInventoryItemCommand) Validate() error {
	return c.guard.Validate(ErrDeleteInventoryItemCommandIsNotConstructed)
}

// ItemID returns the identifier of the item to delete.
func (c DeleteInventoryItemCommand) ItemID() kernel.UUID { return c.itemID }

func (c *DeleteInventoryItemCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	c.itemID = itemID
	return nil
}

// DeleteInventoryItemCommandHandler handles inventory item deletion.
type DeleteInventoryItemCommandHandler struct {
	uowFactory InventoryUoWFactory
	cache      ports.Cache
}

// NewDeleteInventoryItemCommandHandler creates a handler for inventory item deletion.
func NewDeleteInventoryItemCommandHandler(uowFactory InventoryUoWFactory, cache ports.Cache) DeleteInventoryItemCommandHandler {
	return DeleteInventoryItemCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle verifies the item exists, then removes it.
func (h *DeleteInventoryItemCommandHandler) Handle(ctx context.Context, cmd DeleteInventoryItemCommand) error {
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

	repo := uow.InventoryRepository()
	if _, err := repo.Get(ctx, cmd.itemID); err != nil {
		return err
	}

	if err := repo.Delete(ctx, cmd.itemID); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceInventory)

	return nil
}

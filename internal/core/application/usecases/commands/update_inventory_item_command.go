package commands

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrUpdateInventoryItemCommandIsNotConstructed = errors.New(
	"UpdateInventoryItemCommand must be created via NewUpdateInventoryItemCommand constructor",
)

// UpdateInventoryItemCommand represents a request to replace the mutable
// attributes of an inventory item. The SKU never changes after creation.
type UpdateInventoryItemCommand struct { //nolint:recvcheck //using for validation
	itemID          kernel.UUID
	name            string
	description     string
	unitPrice       kernel.Money
	category        string
	location        string
	minimumQuantity int

	guard guard.ConstructorGuard
}

// NewUpdateInventoryItemCommand creates a command to update an inventory item.
func NewUpdateInventoryItemCommand(
	itemID kernel.UUID,
	name string,
	description string,
	unitPrice kernel.Money,
	category string,
	location string,
	minimumQuantity int,
) (UpdateInventoryItemCommand, error) {
	cmd := UpdateInventoryItemCommand{
		description:     description,
		unitPrice:       unitPrice,
		category:        category,
		location:        location,
		minimumQuantity: minimumQuantity,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setName(name),
	); err != nil {
		return UpdateInventoryItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateInventoryItemCommand) Validate() error {
	return c.guard.Validate(ErrUpdateInventoryItemCommandIsNotConstructed)
}

// ItemID returns the identifier of the item to update.
func (c UpdateInventoryItemCommand) ItemID() kernel.UUID { return c.itemID }

func (c *UpdateInventoryItemCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	c.itemID = itemID
	return nil
}

func (c *UpdateInventoryItemCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

// UpdateInventoryItemCommandHandler handles inventory item updates with an
// optimistic version check: the conditional write fails when another writer
// modified the item after it was loaded.
type UpdateInventoryItemCommandHandler struct {
	uowFactory InventoryUoWFactory
	cache      ports.Cache
}

// NewUpdateInventoryItemCommandHandler creates a handler for inventory item updates.
func NewUpdateInventoryItemCommandHandler(uowFactory InventoryUoWFactory, cache ports.Cache) UpdateInventoryItemCommandHandler {
	return UpdateInventoryItemCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle loads the item, applies the changes and persists them conditionally.
func (h *UpdateInventoryItemCommandHandler) Handle(ctx context.Context, cmd UpdateInventoryItemCommand) error {
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
	item, err := repo.Get(ctx, cmd.itemID)
	if err != nil {
		return err
	}

	if err = item.UpdateDetails(cmd.name, cmd.description, cmd.unitPrice,
		cmd.category, cmd.location, cmd.minimumQuantity); err != nil {
		return err
	}

	if err = repo.Update(ctx, item); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceInventory)

	return nil
}

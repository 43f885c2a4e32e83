package commands

import (
	"context"
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrChangeInventoryQuantityCommandIsNotConstructed = errors.New(
	"ChangeInventoryQuantityCommand must be created via NewChangeInventoryQuantityCommand constructor",
)

// ChangeInventoryQuantityCommand represents a request to set the stocked
// quantity of an item to an absolute value.
type ChangeInventoryQuantityCommand struct { //nolint:recvcheck //using for validation
	itemID   kernel.UUID
	quantity int

	guard guard.ConstructorGuard
}

// NewChangeInventoryQuantityCommand creates a command to set an item's quantity.
func NewChangeInventoryQuantityCommand(itemID kernel.UUID, quantity int) (ChangeInventoryQuantityCommand, error) {
	cmd := ChangeInventoryQuantityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setQuantity(quantity),
	); err != nil {
		return ChangeInventoryQuantityCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeInventoryQuantityCommand) Validate() error {
	return c.guard.Validate(ErrChangeInventoryQuantityCommandIsNotConstructed)
}

// ItemID returns the identifier of the item to adjust.
func (c ChangeInventoryQuantityCommand) ItemID() kernel.UUID { return c.itemID }

// Quantity returns the absolute quantity to set.
func (c ChangeInventoryQuantityCommand) Quantity() int { return c.quantity }

func (c *ChangeInventoryQuantityCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	c.itemID = itemID
	return nil
}

func (c *ChangeInventoryQuantityCommand) setQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is negative", quantity))
	}
	c.quantity = quantity
	return nil
}

// ChangeInventoryQuantityCommandHandler handles absolute quantity adjustments.
// Concurrent adjustments to the same item race on the version check and the
// loser receives a concurrent modification error, never a lost update.
type ChangeInventoryQuantityCommandHandler struct {
	uowFactory InventoryUoWFactory
	cache      ports.Cache
}

// NewChangeInventoryQuantityCommandHandler creates a handler for quantity adjustments.
func NewChangeInventoryQuantityCommandHandler(uowFactory InventoryUoWFactory, cache ports.Cache) ChangeInventoryQuantityCommandHandler {
	return ChangeInventoryQuantityCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle loads the item, sets the quantity and persists it conditionally.
func (h *ChangeInventoryQuantityCommandHandler) Handle(ctx context.Context, cmd ChangeInventoryQuantityCommand) error {
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

	if err = item.ChangeQuantity(cmd.quantity); err != nil {
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

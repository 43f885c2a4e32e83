package commands

import (
	"context"
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/inventory"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrCreateInventoryItemCommandIsNotConstructed = errors.New(
	"CreateInventoryItemCommand must be created via NewCreateInventoryItemCommand constructor",
)

// CreateInventoryItemCommand represents a request to register a new stocked
// product under a unique SKU.
type CreateInventoryItemCommand struct { //nolint:recvcheck //using for validation
	itemID          kernel.UUID
	name            string
	description     string
	quantity        int
	unitPrice       kernel.Money
	category        string
	location        string
	sku             string
	minimumQuantity int

	guard guard.ConstructorGuard
}

// NewCreateInventoryItemCommand creates a command to register a new inventory item.
// Range and required-field validation is shared with the aggregate constructor.
func NewCreateInventoryItemCommand(
	itemID kernel.UUID,
	name string,
	description string,
	quantity int,
	unitPrice kernel.Money,
	category string,
	location string,
	sku string,
	minimumQuantity int,
) (CreateInventoryItemCommand, error) {
	cmd := CreateInventoryItemCommand{
		description:     description,
		quantity:        quantity,
		unitPrice:       unitPrice,
		category:        category,
		location:        location,
		minimumQuantity: minimumQuantity,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setName(name),
		cmd.setSKU(sku),
	); err != nil {
		return CreateInventoryItemCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateInventoryItemCommand) Validate() error {
	return c.guard.Validate(ErrCreateInventoryItemCommandIsNotConstructed)
}

// ItemID returns the identifier the new item will be stored under.
func (c CreateInventoryItemCommand) ItemID() kernel.UUID { return c.itemID }

// Name returns the product name.
func (c CreateInventoryItemCommand) Name() string { return c.name }

// SKU returns the unique stock keeping unit.
func (c CreateInventoryItemCommand) SKU() string { return c.sku }

func (c *CreateInventoryItemCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	c.itemID = itemID
	return nil
}

func (c *CreateInventoryItemCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *CreateInventoryItemCommand) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	c.sku = sku
	return nil
}

// CreateInventoryItemCommandHandler handles registration of new inventory items.
type CreateInventoryItemCommandHandler struct {
	uowFactory InventoryUoWFactory
	cache      ports.Cache
}

// NewCreateInventoryItemCommandHandler creates a handler for inventory item creation.
func NewCreateInventoryItemCommandHandler(uowFactory InventoryUoWFactory, cache ports.Cache) CreateInventoryItemCommandHandler {
	return CreateInventoryItemCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle creates the item and persists it. A duplicate SKU is rejected as an
// invalid state before the insert.
func (h *CreateInventoryItemCommandHandler) Handle(ctx context.Context, cmd CreateInventoryItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	item, err := inventory.NewItem(cmd.itemID, cmd.name, cmd.description, cmd.quantity,
		cmd.unitPrice, cmd.category, cmd.location, cmd.sku, cmd.minimumQuantity)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.InventoryRepository()
	if _, err = repo.GetBySKU(ctx, cmd.sku); err == nil {
		return errs.NewInvalidStateError(
			fmt.Sprintf("sku %s is already in use", cmd.sku))
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	if err = repo.Add(ctx, item); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// Cache problems must not fail a committed write.
	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceInventory)

	return nil
}

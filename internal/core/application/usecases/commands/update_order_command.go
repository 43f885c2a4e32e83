package commands

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// UpdateOrderCommand represents a request to replace an order's line items,
// addresses and notes. Status changes go through ChangeOrderStatusCommand.
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	items           []order.Item
	shippingAddress string
	billingAddress  string
	notes           string

	guard guard.ConstructorGuard
}

// NewUpdateOrderCommand creates a command to update an order's details.
func NewUpdateOrderCommand(
	orderID kernel.UUID,
	items []order.Item,
	shippingAddress string,
	billingAddress string,
	notes string,
) (UpdateOrderCommand, error) {
	cmd := UpdateOrderCommand{
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		notes:           notes,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setItems(items),
	); err != nil {
		return UpdateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to update.
func (c UpdateOrderCommand) OrderID() kernel.UUID { return c.orderID }

func (c *UpdateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.items = items
	return nil
}

// UpdateOrderCommandHandler handles order detail updates with an optimistic
// version check.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	cache      ports.Cache
}

// NewUpdateOrderCommandHandler creates a handler for order detail updates.
func NewUpdateOrderCommandHandler(uowFactory OrderUoWFactory, cache ports.Cache) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle loads the order, replaces its details and persists them conditionally.
func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) error {
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

	repo := uow.OrderRepository()
	aggregate, err := repo.Get(ctx, cmd.orderID)
	if err != nil {
		return err
	}

	if err = aggregate.UpdateDetails(cmd.items, cmd.shippingAddress,
		cmd.billingAddress, cmd.notes); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceOrders)

	return nil
}

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

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to place a new customer order.
// Line items are already-validated value objects; the aggregate derives the
// order total from them.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	customerID      string
	customerName    string
	items           []order.Item
	shippingAddress string
	billingAddress  string
	notes           string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Requires a valid order ID, a customer reference and at least one line item.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID string,
	customerName string,
	items []order.Item,
	shippingAddress string,
	billingAddress string,
	notes string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customerName:    customerName,
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		notes:           notes,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will be stored under.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the customer reference.
func (c CreateOrderCommand) CustomerID() string { return c.customerID }

// Items returns the order line items.
func (c CreateOrderCommand) Items() []order.Item { return c.items }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerID")
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.items = items
	return nil
}

// CreateOrderCommandHandler handles the business logic for order creation.
// New orders start in the pending status with a seeded history entry.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	cache      ports.Cache
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, cache ports.Cache) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle creates the order aggregate and persists it transactionally.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, err := order.NewOrder(cmd.orderID, cmd.customerID, cmd.customerName,
		cmd.items, cmd.shippingAddress, cmd.billingAddress, cmd.notes)
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

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceOrders)

	return nil
}

package commands

import (
	"context"
	"errors"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrUpdateShipmentCommandIsNotConstructed = errors.New(
	"UpdateShipmentCommand must be created via NewUpdateShipmentCommand constructor",
)

// UpdateShipmentCommand represents a request to replace a shipment's
// addresses, recipient, expected delivery date and item list. The tracking
// number and order reference never change after creation.
type UpdateShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID           kernel.UUID
	originAddress        string
	destinationAddress   string
	recipientName        string
	expectedDeliveryDate time.Time
	items                []shipment.Item

	guard guard.ConstructorGuard
}

// NewUpdateShipmentCommand creates a command to update a shipment's details.
func NewUpdateShipmentCommand(
	shipmentID kernel.UUID,
	originAddress string,
	destinationAddress string,
	recipientName string,
	expectedDeliveryDate time.Time,
	items []shipment.Item,
) (UpdateShipmentCommand, error) {
	cmd := UpdateShipmentCommand{
		recipientName:        recipientName,
		expectedDeliveryDate: expectedDeliveryDate,
		items:                items,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setOriginAddress(originAddress),
		cmd.setDestinationAddress(destinationAddress),
	); err != nil {
		return UpdateShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateShipmentCommandIsNotConstructed)
}

// ShipmentID returns the identifier of the shipment to update.
func (c UpdateShipmentCommand) ShipmentID() kernel.UUID { return c.shipmentID }

func (c *UpdateShipmentCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}
	c.shipmentID = shipmentID
	return nil
}

func (c *UpdateShipmentCommand) setOriginAddress(originAddress string) error {
	if originAddress == "" {
		return errs.NewValueIsRequiredError("originAddress")
	}
	c.originAddress = originAddress
	return nil
}

func (c *UpdateShipmentCommand) setDestinationAddress(destinationAddress string) error {
	if destinationAddress == "" {
		return errs.NewValueIsRequiredError("destinationAddress")
	}
	c.destinationAddress = destinationAddress
	return nil
}

// UpdateShipmentCommandHandler handles shipment detail updates with an
// optimistic version check.
type UpdateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	cache      ports.Cache
}

// NewUpdateShipmentCommandHandler creates a handler for shipment detail updates.
func NewUpdateShipmentCommandHandler(uowFactory ShipmentUoWFactory, cache ports.Cache) UpdateShipmentCommandHandler {
	return UpdateShipmentCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle loads the shipment, replaces its details and persists them conditionally.
func (h *UpdateShipmentCommandHandler) Handle(ctx context.Context, cmd UpdateShipmentCommand) error {
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

	repo := uow.ShipmentRepository()
	aggregate, err := repo.Get(ctx, cmd.shipmentID)
	if err != nil {
		return err
	}

	if err = aggregate.UpdateDetails(cmd.originAddress, cmd.destinationAddress,
		cmd.recipientName, cmd.expectedDeliveryDate, cmd.items); err != nil {
		return err
	}

	if err = repo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceShipments)

	return nil
}

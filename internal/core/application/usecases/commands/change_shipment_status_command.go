package commands

import (
	"context"
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/guard"
)

var ErrChangeShipmentStatusCommandIsNotConstructed = errors.New(
	"ChangeShipmentStatusCommand must be created via NewChangeShipmentStatusCommand constructor",
)

// ChangeShipmentStatusCommand represents a request to move a shipment along
// its tracking pipeline, recording where the event happened.
type ChangeShipmentStatusCommand struct { //nolint:recvcheck //using for validation
	shipmentID kernel.UUID
	target     shipment.Status
	location   string
	notes      string

	guard guard.ConstructorGuard
}

// NewChangeShipmentStatusCommand creates a command to change a shipment's status.
func NewChangeShipmentStatusCommand(
	shipmentID kernel.UUID,
	target shipment.Status,
	location string,
	notes string,
) (ChangeShipmentStatusCommand, error) {
	cmd := ChangeShipmentStatusCommand{
		location: location,
		notes:    notes,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setTarget(target),
	); err != nil {
		return ChangeShipmentStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeShipmentStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeShipmentStatusCommandIsNotConstructed)
}

// ShipmentID returns the identifier of the shipment to transition.
func (c ChangeShipmentStatusCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// Target returns the requested status.
func (c ChangeShipmentStatusCommand) Target() shipment.Status { return c.target }

func (c *ChangeShipmentStatusCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}
	c.shipmentID = shipmentID
	return nil
}

func (c *ChangeShipmentStatusCommand) setTarget(target shipment.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	c.target = target
	return nil
}

// ChangeShipmentStatusCommandHandler handles tracking pipeline transitions.
// Reaching the delivered status stamps the actual delivery date.
type ChangeShipmentStatusCommandHandler struct {
	uowFactory ShipmentUoWFactory
	cache      ports.Cache
}

// NewChangeShipmentStatusCommandHandler creates a handler for shipment status changes.
func NewChangeShipmentStatusCommandHandler(uowFactory ShipmentUoWFactory, cache ports.Cache) ChangeShipmentStatusCommandHandler {
	return ChangeShipmentStatusCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle loads the shipment, applies the transition and persists it conditionally.
func (h *ChangeShipmentStatusCommandHandler) Handle(ctx context.Context, cmd ChangeShipmentStatusCommand) error {
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

	if err = aggregate.ChangeStatus(cmd.target, cmd.location, cmd.notes); err != nil {
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

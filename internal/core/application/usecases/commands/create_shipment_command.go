package commands

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand represents a request to create a shipment for an
// existing order. When no tracking number is supplied one is generated.
type CreateShipmentCommand struct { //nolint:recvcheck //using for validation
	shipmentID           kernel.UUID
	orderID              kernel.UUID
	trackingNumber       string
	originAddress        string
	destinationAddress   string
	recipientName        string
	expectedDeliveryDate time.Time
	items                []shipment.Item

	guard guard.ConstructorGuard
}

// NewCreateShipmentCommand creates a command to create a shipment.
// An empty trackingNumber is replaced with a generated one.
func NewCreateShipmentCommand(
	shipmentID kernel.UUID,
	orderID kernel.UUID,
	trackingNumber string,
	originAddress string,
	destinationAddress string,
	recipientName string,
	expectedDeliveryDate time.Time,
	items []shipment.Item,
) (CreateShipmentCommand, error) {
	if trackingNumber == "" {
		trackingNumber = generateTrackingNumber()
	}

	cmd := CreateShipmentCommand{
		trackingNumber:       trackingNumber,
		recipientName:        recipientName,
		expectedDeliveryDate: expectedDeliveryDate,
		items:                items,
		guard:                guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setShipmentID(shipmentID),
		cmd.setOrderID(orderID),
		cmd.setOriginAddress(originAddress),
		cmd.setDestinationAddress(destinationAddress),
	); err != nil {
		return CreateShipmentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}

// ShipmentID returns the identifier the new shipment will be stored under.
func (c CreateShipmentCommand) ShipmentID() kernel.UUID { return c.shipmentID }

// OrderID returns the order the shipment fulfils.
func (c CreateShipmentCommand) OrderID() kernel.UUID { return c.orderID }

// TrackingNumber returns the public tracking number, generated when absent.
func (c CreateShipmentCommand) TrackingNumber() string { return c.trackingNumber }

func (c *CreateShipmentCommand) setShipmentID(shipmentID kernel.UUID) error {
	if err := shipmentID.Validate(); err != nil {
		return err
	}
	c.shipmentID = shipmentID
	return nil
}

func (c *CreateShipmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateShipmentCommand) setOriginAddress(originAddress string) error {
	if originAddress == "" {
		return errs.NewValueIsRequiredError("originAddress")
	}
	c.originAddress = originAddress
	return nil
}

func (c *CreateShipmentCommand) setDestinationAddress(destinationAddress string) error {
	if destinationAddress == "" {
		return errs.NewValueIsRequiredError("destinationAddress")
	}
	c.destinationAddress = destinationAddress
	return nil
}

// generateTrackingNumber produces a carrier-style reference such as
// TRK4F09A1B23C. Collisions are caught by the unique index on the column.
func generateTrackingNumber() string {
	buf := make([]byte, 5)
	_, _ = rand.Read(buf)
	return "TRK" + strings.ToUpper(hex.EncodeToString(buf))
}

// CreateShipmentCommandHandler handles shipment creation. The referenced
// order must exist; the shipment starts in the pending status.
type CreateShipmentCommandHandler struct {
	uowFactory ShipmentUoWFactory
	cache      ports.Cache
}

// NewCreateShipmentCommandHandler creates a handler for shipment creation.
func NewCreateShipmentCommandHandler(uowFactory ShipmentUoWFactory, cache ports.Cache) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{uowFactory: uowFactory, cache: cache}
}

// Handle verifies the order exists, creates the shipment and persists it.
func (h *CreateShipmentCommandHandler) Handle(ctx context.Context, cmd CreateShipmentCommand) error {
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

	if _, err := uow.OrderRepository().Get(ctx, cmd.orderID); err != nil {
		return err
	}

	aggregate, err := shipment.NewShipment(cmd.shipmentID, cmd.orderID, cmd.trackingNumber,
		cmd.originAddress, cmd.destinationAddress, cmd.recipientName,
		cmd.expectedDeliveryDate, cmd.items)
	if err != nil {
		return err
	}

	if err = uow.ShipmentRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.cache.Invalidate(ctx, ports.CacheNamespaceShipments)

	return nil
}

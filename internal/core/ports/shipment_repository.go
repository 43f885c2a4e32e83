package ports

import (
	"context"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates,
// including their items and append-only tracking history.
type ShipmentRepository interface {
	// Add persists a new shipment aggregate. The tracking number must be unique.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists changes to an existing shipment only if its stored
	// version still matches the version the aggregate was loaded at.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Delete removes a shipment and its items and history.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get retrieves a shipment aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetByTrackingNumber retrieves a shipment by its public tracking number.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error)

	// GetAll retrieves all shipments, most recently created first.
	GetAll(ctx context.Context) ([]*shipment.Shipment, error)

	// GetAllByStatus retrieves shipments in the given status.
	GetAllByStatus(ctx context.Context, status shipment.Status) ([]*shipment.Shipment, error)

	// GetAllByOrder retrieves shipments created for the given order.
	GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*shipment.Shipment, error)

	// GetRecent retrieves the most recently created shipments, capped at limit.
	GetRecent(ctx context.Context, limit int) ([]*shipment.Shipment, error)
}

package ports

import (
	"context"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates,
// including their line items and append-only status history.
type OrderRepository interface {
	// Add persists a new order aggregate with its items and initial history.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order only if its stored version
	// still matches the version the aggregate was loaded at. New status
	// history entries are appended, never rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Delete removes an order and its items and history.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAll retrieves all orders, most recently created first.
	GetAll(ctx context.Context) ([]*order.Order, error)

	// GetAllByStatus retrieves orders in the given status, most recent first.
	GetAllByStatus(ctx context.Context, status order.Status) ([]*order.Order, error)

	// GetAllByCustomer retrieves orders placed by the given customer.
	GetAllByCustomer(ctx context.Context, customerID string) ([]*order.Order, error)

	// GetRecent retrieves the most recently created orders, capped at limit.
	GetRecent(ctx context.Context, limit int) ([]*order.Order, error)
}

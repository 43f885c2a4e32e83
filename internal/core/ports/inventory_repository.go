package ports

import (
	"context"

	"logistics/internal/core/domain/model/inventory"
	"logistics/internal/core/domain/model/kernel"
)

// InventoryRepository defines the persistence contract for inventory item
// aggregates. Update performs a conditional write keyed on the version the
// aggregate was loaded at and fails with a concurrent modification error when
// another writer got there first.
type InventoryRepository interface {
	// Add persists a new inventory item. The SKU must be unique.
	Add(ctx context.Context, aggregate *inventory.Item) error

	// Update persists changes to an existing item only if its stored version
	// still matches the version the aggregate was loaded at.
	Update(ctx context.Context, aggregate *inventory.Item) error

	// Delete removes an item by identifier.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get retrieves an item by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*inventory.Item, error)

	// GetBySKU retrieves an item by its stock keeping unit.
	GetBySKU(ctx context.Context, sku string) (*inventory.Item, error)

	// GetAll retrieves all items ordered by name.
	GetAll(ctx context.Context) ([]*inventory.Item, error)

	// GetAllLowStock retrieves items whose quantity is at or below their
	// minimum quantity.
	GetAllLowStock(ctx context.Context) ([]*inventory.Item, error)

	// Search retrieves items whose name, category or SKU contains the term,
	// case-insensitively.
	Search(ctx context.Context, term string) ([]*inventory.Item, error)
}

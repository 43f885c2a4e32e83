// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases and read through
// the cache: a hit is served directly, a miss falls through to the database
// and populates the cache on the way back. Cache backend failures degrade to
// database reads, never to request failures.
package queries

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrGetInventoryItemQueryIsNotConstructed = errors.New(
	"GetInventoryItemQuery must be created via NewGetInventoryItemQuery constructor",
)

// GetInventoryItemQuery retrieves a single inventory item by identifier.
type GetInventoryItemQuery struct {
	itemID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetInventoryItemQuery creates a query to retrieve one inventory item.
func NewGetInventoryItemQuery(itemID kernel.UUID) (GetInventoryItemQuery, error) {
	if err := itemID.Validate(); err != nil {
		return GetInventoryItemQuery{}, err
	}
	return GetInventoryItemQuery{itemID: itemID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetInventoryItemQuery) Validate() error {
	return q.guard.Validate(ErrGetInventoryItemQueryIsNotConstructed)
}

// ItemID returns the identifier of the item to retrieve.
func (q GetInventoryItemQuery) ItemID() kernel.UUID { return q.itemID }

// InventoryItemResponse is the inventory read model. JSON tags double as the
// cache serialization format.
type InventoryItemResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unitPrice"`
	Category        string    `json:"category"`
	Location        string    `json:"location"`
	SKU             string    `json:"sku"`
	MinimumQuantity int       `json:"minimumQuantity"`
	LowStock        bool      `json:"lowStock"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

const inventoryItemColumns = `
	id,
	name,
	description,
	quantity,
	unit_price_cents,
	category,
	location,
	sku,
	minimum_quantity,
	version,
	created_at,
	updated_at
`

// scanInventoryItems converts result rows into read models.
func scanInventoryItems(ctx context.Context, db *gorm.DB, sql string, args ...any) ([]InventoryItemResponse, error) {
	items := make([]InventoryItemResponse, 0)

	result, err := db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer result.Close()

	for result.Next() {
		var item InventoryItemResponse
		var unitPriceCents int64

		if err = result.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Quantity,
			&unitPriceCents,
			&item.Category,
			&item.Location,
			&item.SKU,
			&item.MinimumQuantity,
			&item.Version,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}

		item.UnitPrice = kernel.NewMoneyFromCents(unitPriceCents).Float64()
		item.LowStock = item.Quantity <= item.MinimumQuantity
		items = append(items, item)
	}

	if err = result.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetInventoryItemQueryHandler serves single-item reads through the cache.
type GetInventoryItemQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewGetInventoryItemQueryHandler creates a handler for single-item retrieval.
func NewGetInventoryItemQueryHandler(db *gorm.DB, cache ports.Cache) GetInventoryItemQueryHandler {
	return GetInventoryItemQueryHandler{db: db, cache: cache}
}

// Handle returns the item read model, from cache when possible.
func (h GetInventoryItemQueryHandler) Handle(ctx context.Context, query GetInventoryItemQuery) (InventoryItemResponse, error) {
	if err := query.Validate(); err != nil {
		return InventoryItemResponse{}, err
	}

	cacheKey := "item:" + query.itemID.String()
	var cached InventoryItemResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceInventory, cacheKey, &cached); err == nil {
		return cached, nil
	}

	items, err := scanInventoryItems(ctx, h.db,
		`SELECT `+inventoryItemColumns+` FROM inventory_items WHERE id = ?`, query.itemID.String())
	if err != nil {
		return InventoryItemResponse{}, err
	}
	if len(items) == 0 {
		return InventoryItemResponse{}, errs.NewObjectNotFoundError("item", query.itemID)
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceInventory, cacheKey, items[0])

	return items[0], nil
}

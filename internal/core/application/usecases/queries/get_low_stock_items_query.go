package queries

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrGetLowStockItemsQueryIsNotConstructed = errors.New(
	"GetLowStockItemsQuery must be created via NewGetLowStockItemsQuery constructor",
)

// GetLowStockItemsQuery retrieves items whose quantity is at or below their
// minimum quantity, or below an explicit threshold when one is given. Used by
// the replenishment report and the alert job.
type GetLowStockItemsQuery struct {
	threshold int

	guard guard.ConstructorGuard
}

// NewGetLowStockItemsQuery creates a query that compares each item against
// its own minimum quantity.
func NewGetLowStockItemsQuery() GetLowStockItemsQuery {
	return GetLowStockItemsQuery{guard: guard.NewConstructorGuard()}
}

// NewGetLowStockItemsQueryWithThreshold creates a query that compares every
// item against the same explicit threshold instead of per-item minimums.
func NewGetLowStockItemsQueryWithThreshold(threshold int) (GetLowStockItemsQuery, error) {
	if threshold < 1 {
		return GetLowStockItemsQuery{}, errs.NewValueIsInvalidError("threshold")
	}
	return GetLowStockItemsQuery{threshold: threshold, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetLowStockItemsQuery) Validate() error {
	return q.guard.Validate(ErrGetLowStockItemsQueryIsNotConstructed)
}

// GetLowStockItemsQueryHandler serves the low stock report through the cache.
type GetLowStockItemsQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewGetLowStockItemsQueryHandler creates a handler for the low stock report.
func NewGetLowStockItemsQueryHandler(db *gorm.DB, cache ports.Cache) GetLowStockItemsQueryHandler {
	return GetLowStockItemsQueryHandler{db: db, cache: cache}
}

// Handle returns items at or below their minimum quantity, lowest stock first.
func (h GetLowStockItemsQueryHandler) Handle(ctx context.Context, query GetLowStockItemsQuery) ([]InventoryItemResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("low-stock:threshold=%d", query.threshold)
	var cached []InventoryItemResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceInventory, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var items []InventoryItemResponse
	var err error
	if query.threshold > 0 {
		items, err = scanInventoryItems(ctx, h.db,
			`SELECT `+inventoryItemColumns+` FROM inventory_items
			WHERE quantity <= ?
			ORDER BY quantity, name`, query.threshold)
	} else {
		items, err = scanInventoryItems(ctx, h.db,
			`SELECT `+inventoryItemColumns+` FROM inventory_items
			WHERE quantity <= minimum_quantity
			ORDER BY quantity - minimum_quantity, name`)
	}
	if err != nil {
		return nil, err
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceInventory, cacheKey, items)

	return items, nil
}

package queries

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrSearchInventoryQueryIsNotConstructed = errors.New(
	"SearchInventoryQuery must be created via NewSearchInventoryQuery constructor",
)

// SearchInventoryQuery retrieves items whose name, category or SKU contains
// the search term, case-insensitively.
type SearchInventoryQuery struct {
	term string

	guard guard.ConstructorGuard
}

// NewSearchInventoryQuery creates a query to search the inventory.
func NewSearchInventoryQuery(term string) (SearchInventoryQuery, error) {
	if term == "" {
		return SearchInventoryQuery{}, errs.NewValueIsRequiredError("term")
	}
	return SearchInventoryQuery{term: term, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q SearchInventoryQuery) Validate() error {
	return q.guard.Validate(ErrSearchInventoryQueryIsNotConstructed)
}

// Term returns the search term.
func (q SearchInventoryQuery) Term() string { return q.term }

// SearchInventoryQueryHandler serves inventory searches through the cache,
// keyed per term within the inventory namespace.
type SearchInventoryQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewSearchInventoryQueryHandler creates a handler for inventory search.
func NewSearchInventoryQueryHandler(db *gorm.DB, cache ports.Cache) SearchInventoryQueryHandler {
	return SearchInventoryQueryHandler{db: db, cache: cache}
}

// Handle returns items matching the term, ordered by name.
func (h SearchInventoryQueryHandler) Handle(ctx context.Context, query SearchInventoryQuery) ([]InventoryItemResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cacheKey := "search:" + query.term
	var cached []InventoryItemResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceInventory, cacheKey, &cached); err == nil {
		return cached, nil
	}

	pattern := "%" + query.term + "%"
	items, err := scanInventoryItems(ctx, h.db,
		`SELECT `+inventoryItemColumns+` FROM inventory_items
		WHERE name ILIKE ? OR category ILIKE ? OR sku ILIKE ?
		ORDER BY name`, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceInventory, cacheKey, items)

	return items, nil
}

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

var ErrListInventoryItemsQueryIsNotConstructed = errors.New(
	"ListInventoryItemsQuery must be created via NewListInventoryItemsQuery constructor",
)

const (
	// DefaultPageSize is applied when a listing request names no page size.
	DefaultPageSize = 20
	// MaxPageSize caps how many rows a single page may carry.
	MaxPageSize = 100
)

// ListInventoryItemsQuery retrieves one page of inventory items ordered by
// name.
type ListInventoryItemsQuery struct {
	page int
	size int

	guard guard.ConstructorGuard
}

// NewListInventoryItemsQuery creates a query for one page of the item list.
// Pages are numbered from 1.
func NewListInventoryItemsQuery(page, size int) (ListInventoryItemsQuery, error) {
	if page < 1 {
		return ListInventoryItemsQuery{}, errs.NewValueIsInvalidError("page")
	}
	if size < 1 || size > MaxPageSize {
		return ListInventoryItemsQuery{}, errs.NewValueIsOutOfRangeError("size", size, 1, MaxPageSize)
	}

	return ListInventoryItemsQuery{page: page, size: size, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListInventoryItemsQuery) Validate() error {
	return q.guard.Validate(ErrListInventoryItemsQueryIsNotConstructed)
}

// InventoryItemPageResponse is one page of the item list together with the
// paging bookkeeping the caller needs to fetch the rest.
type InventoryItemPageResponse struct {
	Items      []InventoryItemResponse `json:"items"`
	Page       int                     `json:"page"`
	Size       int                     `json:"size"`
	TotalItems int64                   `json:"totalItems"`
	TotalPages int                     `json:"totalPages"`
}

// ListInventoryItemsQueryHandler serves item list pages through the cache.
type ListInventoryItemsQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewListInventoryItemsQueryHandler creates a handler for item list retrieval.
func NewListInventoryItemsQueryHandler(db *gorm.DB, cache ports.Cache) ListInventoryItemsQueryHandler {
	return ListInventoryItemsQueryHandler{db: db, cache: cache}
}

// Handle returns the requested page of items ordered by name, from cache when
// possible.
func (h ListInventoryItemsQueryHandler) Handle(ctx context.Context, query ListInventoryItemsQuery) (InventoryItemPageResponse, error) {
	if err := query.Validate(); err != nil {
		return InventoryItemPageResponse{}, err
	}

	cacheKey := fmt.Sprintf("list:page=%d:size=%d", query.page, query.size)
	var cached InventoryItemPageResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceInventory, cacheKey, &cached); err == nil {
		return cached, nil
	}

	var total int64
	if err := h.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM inventory_items`).
		Scan(&total).Error; err != nil {
		return InventoryItemPageResponse{}, err
	}

	offset := (query.page - 1) * query.size
	items, err := scanInventoryItems(ctx, h.db,
		`SELECT `+inventoryItemColumns+` FROM inventory_items ORDER BY name LIMIT ? OFFSET ?`,
		query.size, offset)
	if err != nil {
		return InventoryItemPageResponse{}, err
	}

	page := InventoryItemPageResponse{
		Items:      items,
		Page:       query.page,
		Size:       query.size,
		TotalItems: total,
		TotalPages: int((total + int64(query.size) - 1) / int64(query.size)),
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceInventory, cacheKey, page)

	return page, nil
}

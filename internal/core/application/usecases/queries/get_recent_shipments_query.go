package queries

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrGetRecentShipmentsQueryIsNotConstructed = errors.New(
	"GetRecentShipmentsQuery must be created via NewGetRecentShipmentsQuery constructor",
)

// GetRecentShipmentsQuery retrieves the most recently created shipments.
type GetRecentShipmentsQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetRecentShipmentsQuery creates a query for the newest shipments, capped at limit.
func NewGetRecentShipmentsQuery(limit int) (GetRecentShipmentsQuery, error) {
	if limit <= 0 || limit > maxRecentLimit {
		return GetRecentShipmentsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxRecentLimit)
	}
	return GetRecentShipmentsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRecentShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetRecentShipmentsQueryIsNotConstructed)
}

// Limit returns the maximum number of shipments to return.
func (q GetRecentShipmentsQuery) Limit() int { return q.limit }

// GetRecentShipmentsQueryHandler serves the recent shipments dashboard view.
type GetRecentShipmentsQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewGetRecentShipmentsQueryHandler creates a handler for recent shipment retrieval.
func NewGetRecentShipmentsQueryHandler(db *gorm.DB, cache ports.Cache) GetRecentShipmentsQueryHandler {
	return GetRecentShipmentsQueryHandler{db: db, cache: cache}
}

// Handle returns the newest shipments, from cache when possible.
func (h GetRecentShipmentsQueryHandler) Handle(ctx context.Context, query GetRecentShipmentsQuery) ([]ShipmentSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cacheKey := "recent:" + strconv.Itoa(query.limit)
	var cached []ShipmentSummaryResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceShipments, cacheKey, &cached); err == nil {
		return cached, nil
	}

	shipments, err := scanShipmentSummaries(ctx, h.db,
		`SELECT `+shipmentSummaryColumns+` FROM shipments ORDER BY created_at DESC LIMIT ?`, query.limit)
	if err != nil {
		return nil, err
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceShipments, cacheKey, shipments)

	return shipments, nil
}

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

var ErrGetRecentOrdersQueryIsNotConstructed = errors.New(
	"GetRecentOrdersQuery must be created via NewGetRecentOrdersQuery constructor",
)

const maxRecentLimit = 100

// GetRecentOrdersQuery retrieves the most recently created orders.
type GetRecentOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetRecentOrdersQuery creates a query for the newest orders, capped at limit.
func NewGetRecentOrdersQuery(limit int) (GetRecentOrdersQuery, error) {
	if limit <= 0 || limit > maxRecentLimit {
		return GetRecentOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxRecentLimit)
	}
	return GetRecentOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRecentOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetRecentOrdersQueryIsNotConstructed)
}

// Limit returns the maximum number of orders to return.
func (q GetRecentOrdersQuery) Limit() int { return q.limit }

// GetRecentOrdersQueryHandler serves the recent orders dashboard view.
type GetRecentOrdersQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewGetRecentOrdersQueryHandler creates a handler for recent order retrieval.
func NewGetRecentOrdersQueryHandler(db *gorm.DB, cache ports.Cache) GetRecentOrdersQueryHandler {
	return GetRecentOrdersQueryHandler{db: db, cache: cache}
}

// Handle returns the newest orders, from cache when possible.
func (h GetRecentOrdersQueryHandler) Handle(ctx context.Context, query GetRecentOrdersQuery) ([]OrderSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cacheKey := "recent:" + strconv.Itoa(query.limit)
	var cached []OrderSummaryResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceOrders, cacheKey, &cached); err == nil {
		return cached, nil
	}

	orders, err := scanOrderSummaries(ctx, h.db,
		`SELECT `+orderSummaryColumns+` FROM orders ORDER BY created_at DESC LIMIT ?`, query.limit)
	if err != nil {
		return nil, err
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceOrders, cacheKey, orders)

	return orders, nil
}

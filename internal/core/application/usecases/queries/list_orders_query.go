package queries

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery retrieves order summaries, optionally narrowed to a status,
// a customer or a free-text search term. All filters are optional and may be
// combined.
type ListOrdersQuery struct {
	status     order.Status
	customerID string
	search     string

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a query to list orders. Pass order.Unknown and
// empty strings for an unfiltered listing. The search term matches customer
// names and notes, case-insensitively.
func NewListOrdersQuery(status order.Status, customerID, search string) (ListOrdersQuery, error) {
	if status != order.Unknown {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	return ListOrdersQuery{
		status:     status,
		customerID: customerID,
		search:     search,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// ListOrdersQueryHandler serves order listings through the cache, keyed by
// the filter combination.
type ListOrdersQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewListOrdersQueryHandler creates a handler for order listings.
func NewListOrdersQueryHandler(db *gorm.DB, cache ports.Cache) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db, cache: cache}
}

// Handle returns order summaries matching the filters, most recent first.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cacheKey := "list:status=" + query.status.String() +
		":customer=" + query.customerID + ":search=" + query.search
	var cached []OrderSummaryResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceOrders, cacheKey, &cached); err == nil {
		return cached, nil
	}

	sqlText := `SELECT ` + orderSummaryColumns + ` FROM orders WHERE 1=1`
	args := make([]any, 0, 3)

	if query.status != order.Unknown {
		sqlText += ` AND status = ?`
		args = append(args, query.status.String())
	}
	if query.customerID != "" {
		sqlText += ` AND customer_id = ?`
		args = append(args, query.customerID)
	}
	if query.search != "" {
		pattern := "%" + query.search + "%"
		sqlText += ` AND (customer_name ILIKE ? OR notes ILIKE ?)`
		args = append(args, pattern, pattern)
	}
	sqlText += ` ORDER BY created_at DESC`

	orders, err := scanOrderSummaries(ctx, h.db, sqlText, args...)
	if err != nil {
		return nil, err
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceOrders, cacheKey, orders)

	return orders, nil
}

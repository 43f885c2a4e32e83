package queries

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/guard"
)

var ErrListShipmentsQueryIsNotConstructed = errors.New(
	"ListShipmentsQuery must be created via NewListShipmentsQuery constructor",
)

// ListShipmentsQuery retrieves shipment summaries, optionally narrowed to a
// status, an order or a free-text search term.
type ListShipmentsQuery struct {
	status  shipment.Status
	orderID kernel.UUID
	byOrder bool
	search  string

	guard guard.ConstructorGuard
}

// NewListShipmentsQuery creates a query to list shipments. Pass
// shipment.Unknown for no status filter and a nil orderID for no order filter.
// The search term matches tracking numbers and recipient names,
// case-insensitively.
func NewListShipmentsQuery(status shipment.Status, orderID *kernel.UUID, search string) (ListShipmentsQuery, error) {
	q := ListShipmentsQuery{status: status, search: search, guard: guard.NewConstructorGuard()}

	if status != shipment.Unknown {
		if err := status.Validate(); err != nil {
			return ListShipmentsQuery{}, err
		}
	}
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			return ListShipmentsQuery{}, err
		}
		q.orderID = *orderID
		q.byOrder = true
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q ListShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrListShipmentsQueryIsNotConstructed)
}

// ListShipmentsQueryHandler serves shipment listings through the cache, keyed
// by the filter combination.
type ListShipmentsQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewListShipmentsQueryHandler creates a handler for shipment listings.
func NewListShipmentsQueryHandler(db *gorm.DB, cache ports.Cache) ListShipmentsQueryHandler {
	return ListShipmentsQueryHandler{db: db, cache: cache}
}

// Handle returns shipment summaries matching the filters, most recent first.
func (h ListShipmentsQueryHandler) Handle(ctx context.Context, query ListShipmentsQuery) ([]ShipmentSummaryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orderFilter := ""
	if query.byOrder {
		orderFilter = query.orderID.String()
	}
	cacheKey := "list:status=" + query.status.String() +
		":order=" + orderFilter + ":search=" + query.search
	var cached []ShipmentSummaryResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceShipments, cacheKey, &cached); err == nil {
		return cached, nil
	}

	sqlText := `SELECT ` + shipmentSummaryColumns + ` FROM shipments WHERE 1=1`
	args := make([]any, 0, 3)

	if query.status != shipment.Unknown {
		sqlText += ` AND status = ?`
		args = append(args, query.status.String())
	}
	if query.byOrder {
		sqlText += ` AND order_id = ?`
		args = append(args, orderFilter)
	}
	if query.search != "" {
		pattern := "%" + query.search + "%"
		sqlText += ` AND (tracking_number ILIKE ? OR recipient_name ILIKE ?)`
		args = append(args, pattern, pattern)
	}
	sqlText += ` ORDER BY created_at DESC`

	shipments, err := scanShipmentSummaries(ctx, h.db, sqlText, args...)
	if err != nil {
		return nil, err
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceShipments, cacheKey, shipments)

	return shipments, nil
}

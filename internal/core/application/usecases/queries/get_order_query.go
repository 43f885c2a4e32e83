package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/gorm"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves a single order with its line items and full status
// history.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query to retrieve one order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the identifier of the order to retrieve.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// OrderItemResponse is a line item in the order read model.
type OrderItemResponse struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

// StatusEventResponse is one entry in an order's status history.
type StatusEventResponse struct {
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
	Notes      string    `json:"notes,omitempty"`
}

// OrderSummaryResponse is the order read model used in listings, without the
// line items and history.
type OrderSummaryResponse struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customerId"`
	CustomerName    string    `json:"customerName"`
	Status          string    `json:"status"`
	TotalAmount     float64   `json:"totalAmount"`
	ShippingAddress string    `json:"shippingAddress"`
	BillingAddress  string    `json:"billingAddress"`
	Notes           string    `json:"notes,omitempty"`
	Version         int64     `json:"version"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// OrderResponse is the full order read model.
type OrderResponse struct {
	OrderSummaryResponse
	Items   []OrderItemResponse   `json:"items"`
	History []StatusEventResponse `json:"statusHistory"`
}

const orderSummaryColumns = `
	id,
	customer_id,
	customer_name,
	status,
	total_amount_cents,
	shipping_address,
	billing_address,
	notes,
	version,
	created_at,
	updated_at
`

func scanOrderSummaries(ctx context.Context, db *gorm.DB, sqlText string, args ...any) ([]OrderSummaryResponse, error) {
	orders := make([]OrderSummaryResponse, 0)

	result, err := db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer result.Close()

	for result.Next() {
		var o OrderSummaryResponse
		var totalAmountCents int64
		var notes sql.NullString

		if err = result.Scan(
			&o.ID,
			&o.CustomerID,
			&o.CustomerName,
			&o.Status,
			&totalAmountCents,
			&o.ShippingAddress,
			&o.BillingAddress,
			&notes,
			&o.Version,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, err
		}

		o.TotalAmount = kernel.NewMoneyFromCents(totalAmountCents).Float64()
		o.Notes = notes.String
		orders = append(orders, o)
	}

	if err = result.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func loadOrderItems(ctx context.Context, db *gorm.DB, orderID string) ([]OrderItemResponse, error) {
	items := make([]OrderItemResponse, 0)

	result, err := db.WithContext(ctx).Raw(`
		SELECT product_id, product_name, quantity, unit_price_cents, total_price_cents
		FROM order_items
		WHERE order_id = ?
		ORDER BY id`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer result.Close()

	for result.Next() {
		var item OrderItemResponse
		var unitPriceCents, totalPriceCents int64

		if err = result.Scan(&item.ProductID, &item.ProductName, &item.Quantity,
			&unitPriceCents, &totalPriceCents); err != nil {
			return nil, err
		}

		item.UnitPrice = kernel.NewMoneyFromCents(unitPriceCents).Float64()
		item.TotalPrice = kernel.NewMoneyFromCents(totalPriceCents).Float64()
		items = append(items, item)
	}

	return items, result.Err()
}

func loadOrderHistory(ctx context.Context, db *gorm.DB, orderID string) ([]StatusEventResponse, error) {
	history := make([]StatusEventResponse, 0)

	result, err := db.WithContext(ctx).Raw(`
		SELECT status, occurred_at, notes
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY id`, orderID).Rows()
	if err != nil {
		return nil, err
	}
	defer result.Close()

	for result.Next() {
		var event StatusEventResponse
		var notes sql.NullString

		if err = result.Scan(&event.Status, &event.OccurredAt, &notes); err != nil {
			return nil, err
		}

		event.Notes = notes.String
		history = append(history, event)
	}

	return history, result.Err()
}

// GetOrderQueryHandler serves single-order reads through the cache.
type GetOrderQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewGetOrderQueryHandler creates a handler for single-order retrieval.
func NewGetOrderQueryHandler(db *gorm.DB, cache ports.Cache) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, cache: cache}
}

// Handle returns the order with items and history, from cache when possible.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	cacheKey := "order:" + query.orderID.String()
	var cached OrderResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceOrders, cacheKey, &cached); err == nil {
		return cached, nil
	}

	summaries, err := scanOrderSummaries(ctx, h.db,
		`SELECT `+orderSummaryColumns+` FROM orders WHERE id = ?`, query.orderID.String())
	if err != nil {
		return OrderResponse{}, err
	}
	if len(summaries) == 0 {
		return OrderResponse{}, errs.NewObjectNotFoundError("order", query.orderID)
	}

	response := OrderResponse{OrderSummaryResponse: summaries[0]}

	if response.Items, err = loadOrderItems(ctx, h.db, response.ID); err != nil {
		return OrderResponse{}, err
	}
	if response.History, err = loadOrderHistory(ctx, h.db, response.ID); err != nil {
		return OrderResponse{}, err
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceOrders, cacheKey, response)

	return response, nil
}

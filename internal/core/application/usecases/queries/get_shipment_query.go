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

var ErrGetShipmentQueryIsNotConstructed = errors.New(
	"GetShipmentQuery must be created via NewGetShipmentQuery constructor",
)

// GetShipmentQuery retrieves a single shipment with its items and full
// tracking history.
type GetShipmentQuery struct {
	shipmentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetShipmentQuery creates a query to retrieve one shipment.
func NewGetShipmentQuery(shipmentID kernel.UUID) (GetShipmentQuery, error) {
	if err := shipmentID.Validate(); err != nil {
		return GetShipmentQuery{}, err
	}
	return GetShipmentQuery{shipmentID: shipmentID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetShipmentQuery) Validate() error {
	return q.guard.Validate(ErrGetShipmentQueryIsNotConstructed)
}

// ShipmentID returns the identifier of the shipment to retrieve.
func (q GetShipmentQuery) ShipmentID() kernel.UUID { return q.shipmentID }

// ShipmentItemResponse is a packed item in the shipment read model.
type ShipmentItemResponse struct {
	ID        string  `json:"id"`
	ItemID    string  `json:"itemId"`
	ItemName  string  `json:"itemName"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// TrackingEventResponse is one entry in a shipment's tracking history.
type TrackingEventResponse struct {
	Status     string    `json:"status"`
	Location   string    `json:"location,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ShipmentSummaryResponse is the shipment read model used in listings.
type ShipmentSummaryResponse struct {
	ID                   string     `json:"id"`
	OrderID              string     `json:"orderId"`
	TrackingNumber       string     `json:"trackingNumber"`
	Status               string     `json:"status"`
	OriginAddress        string     `json:"originAddress"`
	DestinationAddress   string     `json:"destinationAddress"`
	RecipientName        string     `json:"recipientName,omitempty"`
	ExpectedDeliveryDate time.Time  `json:"expectedDeliveryDate"`
	ActualDeliveryDate   *time.Time `json:"actualDeliveryDate,omitempty"`
	Version              int64      `json:"version"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// ShipmentResponse is the full shipment read model.
type ShipmentResponse struct {
	ShipmentSummaryResponse
	Items   []ShipmentItemResponse  `json:"items"`
	History []TrackingEventResponse `json:"trackingHistory"`
}

const shipmentSummaryColumns = `
	id,
	order_id,
	tracking_number,
	status,
	origin_address,
	destination_address,
	recipient_name,
	expected_delivery_date,
	actual_delivery_date,
	version,
	created_at,
	updated_at
`

func scanShipmentSummaries(ctx context.Context, db *gorm.DB, sqlText string, args ...any) ([]ShipmentSummaryResponse, error) {
	shipments := make([]ShipmentSummaryResponse, 0)

	result, err := db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer result.Close()

	for result.Next() {
		var s ShipmentSummaryResponse
		var recipient sql.NullString
		var actualDelivery sql.NullTime

		if err = result.Scan(
			&s.ID,
			&s.OrderID,
			&s.TrackingNumber,
			&s.Status,
			&s.OriginAddress,
			&s.DestinationAddress,
			&recipient,
			&s.ExpectedDeliveryDate,
			&actualDelivery,
			&s.Version,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}

		s.RecipientName = recipient.String
		if actualDelivery.Valid {
			t := actualDelivery.Time
			s.ActualDeliveryDate = &t
		}
		shipments = append(shipments, s)
	}

	if err = result.Err(); err != nil {
		return nil, err
	}

	return shipments, nil
}

func loadShipmentDetails(ctx context.Context, db *gorm.DB, summary ShipmentSummaryResponse) (ShipmentResponse, error) {
	response := ShipmentResponse{
		ShipmentSummaryResponse: summary,
		Items:                   make([]ShipmentItemResponse, 0),
		History:                 make([]TrackingEventResponse, 0),
	}

	itemRows, err := db.WithContext(ctx).Raw(`
		SELECT id, item_id, item_name, quantity, unit_price_cents
		FROM shipment_items
		WHERE shipment_id = ?
		ORDER BY item_name`, summary.ID).Rows()
	if err != nil {
		return ShipmentResponse{}, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item ShipmentItemResponse
		var unitPriceCents int64

		if err = itemRows.Scan(&item.ID, &item.ItemID, &item.ItemName,
			&item.Quantity, &unitPriceCents); err != nil {
			return ShipmentResponse{}, err
		}

		item.UnitPrice = kernel.NewMoneyFromCents(unitPriceCents).Float64()
		response.Items = append(response.Items, item)
	}
	if err = itemRows.Err(); err != nil {
		return ShipmentResponse{}, err
	}

	historyRows, err := db.WithContext(ctx).Raw(`
		SELECT status, location, notes, occurred_at
		FROM shipment_status_history
		WHERE shipment_id = ?
		ORDER BY id`, summary.ID).Rows()
	if err != nil {
		return ShipmentResponse{}, err
	}
	defer historyRows.Close()

	for historyRows.Next() {
		var event TrackingEventResponse
		var location, notes sql.NullString

		if err = historyRows.Scan(&event.Status, &location, &notes, &event.OccurredAt); err != nil {
			return ShipmentResponse{}, err
		}

		event.Location = location.String
		event.Notes = notes.String
		response.History = append(response.History, event)
	}

	return response, historyRows.Err()
}

// GetShipmentQueryHandler serves single-shipment reads through the cache.
type GetShipmentQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewGetShipmentQueryHandler creates a handler for single-shipment retrieval.
func NewGetShipmentQueryHandler(db *gorm.DB, cache ports.Cache) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db, cache: cache}
}

// Handle returns the shipment with items and history, from cache when possible.
func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (ShipmentResponse, error) {
	if err := query.Validate(); err != nil {
		return ShipmentResponse{}, err
	}

	cacheKey := "shipment:" + query.shipmentID.String()
	var cached ShipmentResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceShipments, cacheKey, &cached); err == nil {
		return cached, nil
	}

	summaries, err := scanShipmentSummaries(ctx, h.db,
		`SELECT `+shipmentSummaryColumns+` FROM shipments WHERE id = ?`, query.shipmentID.String())
	if err != nil {
		return ShipmentResponse{}, err
	}
	if len(summaries) == 0 {
		return ShipmentResponse{}, errs.NewObjectNotFoundError("shipment", query.shipmentID)
	}

	response, err := loadShipmentDetails(ctx, h.db, summaries[0])
	if err != nil {
		return ShipmentResponse{}, err
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceShipments, cacheKey, response)

	return response, nil
}

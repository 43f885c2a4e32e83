package queries

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrTrackShipmentQueryIsNotConstructed = errors.New(
	"TrackShipmentQuery must be created via NewTrackShipmentQuery constructor",
)

// TrackShipmentQuery retrieves a shipment by its public tracking number.
// This backs the customer-facing tracking endpoint.
type TrackShipmentQuery struct {
	trackingNumber string

	guard guard.ConstructorGuard
}

// NewTrackShipmentQuery creates a query to track a shipment.
func NewTrackShipmentQuery(trackingNumber string) (TrackShipmentQuery, error) {
	if trackingNumber == "" {
		return TrackShipmentQuery{}, errs.NewValueIsRequiredError("trackingNumber")
	}
	return TrackShipmentQuery{trackingNumber: trackingNumber, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q TrackShipmentQuery) Validate() error {
	return q.guard.Validate(ErrTrackShipmentQueryIsNotConstructed)
}

// TrackingNumber returns the tracking number to look up.
func (q TrackShipmentQuery) TrackingNumber() string { return q.trackingNumber }

// TrackShipmentQueryHandler serves tracking lookups through the cache.
type TrackShipmentQueryHandler struct {
	db    *gorm.DB
	cache ports.Cache
}

// NewTrackShipmentQueryHandler creates a handler for tracking lookups.
func NewTrackShipmentQueryHandler(db *gorm.DB, cache ports.Cache) TrackShipmentQueryHandler {
	return TrackShipmentQueryHandler{db: db, cache: cache}
}

// Handle returns the shipment for the tracking number, from cache when possible.
func (h TrackShipmentQueryHandler) Handle(ctx context.Context, query TrackShipmentQuery) (ShipmentResponse, error) {
	if err := query.Validate(); err != nil {
		return ShipmentResponse{}, err
	}

	cacheKey := "tracking:" + query.trackingNumber
	var cached ShipmentResponse
	if err := h.cache.GetJSON(ctx, ports.CacheNamespaceShipments, cacheKey, &cached); err == nil {
		return cached, nil
	}

	summaries, err := scanShipmentSummaries(ctx, h.db,
		`SELECT `+shipmentSummaryColumns+` FROM shipments WHERE tracking_number = ?`, query.trackingNumber)
	if err != nil {
		return ShipmentResponse{}, err
	}
	if len(summaries) == 0 {
		return ShipmentResponse{}, errs.NewObjectNotFoundError("shipment", query.trackingNumber)
	}

	response, err := loadShipmentDetails(ctx, h.db, summaries[0])
	if err != nil {
		return ShipmentResponse{}, err
	}

	_ = h.cache.SetJSON(ctx, ports.CacheNamespaceShipments, cacheKey, response)

	return response, nil
}

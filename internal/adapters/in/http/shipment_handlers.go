package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/pkg/errs"
)

// ShipmentHandlers serves the shipment resource.
type ShipmentHandlers struct {
	createHandler       commands.CreateShipmentCommandHandler
	updateHandler       commands.UpdateShipmentCommandHandler
	changeStatusHandler commands.ChangeShipmentStatusCommandHandler
	deleteHandler       commands.DeleteShipmentCommandHandler

	getHandler    queries.GetShipmentQueryHandler
	trackHandler  queries.TrackShipmentQueryHandler
	listHandler   queries.ListShipmentsQueryHandler
	recentHandler queries.GetRecentShipmentsQueryHandler
}

// NewShipmentHandlers creates the shipment handler group.
func NewShipmentHandlers(
	createHandler commands.CreateShipmentCommandHandler,
	updateHandler commands.UpdateShipmentCommandHandler,
	changeStatusHandler commands.ChangeShipmentStatusCommandHandler,
	deleteHandler commands.DeleteShipmentCommandHandler,
	getHandler queries.GetShipmentQueryHandler,
	trackHandler queries.TrackShipmentQueryHandler,
	listHandler queries.ListShipmentsQueryHandler,
	recentHandler queries.GetRecentShipmentsQueryHandler,
) *ShipmentHandlers {
	return &ShipmentHandlers{
		createHandler:       createHandler,
		updateHandler:       updateHandler,
		changeStatusHandler: changeStatusHandler,
		deleteHandler:       deleteHandler,
		getHandler:          getHandler,
		trackHandler:        trackHandler,
		listHandler:         listHandler,
		recentHandler:       recentHandler,
	}
}

type shipmentItemRequest struct {
	ItemID    string  `json:"itemId"`
	ItemName  string  `json:"itemName"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type createShipmentRequest struct {
	OrderID              string                `json:"orderId"`
	TrackingNumber       string                `json:"trackingNumber"`
	OriginAddress        string                `json:"originAddress"`
	DestinationAddress   string                `json:"destinationAddress"`
	RecipientName        string                `json:"recipientName"`
	ExpectedDeliveryDate time.Time             `json:"expectedDeliveryDate"`
	Items                []shipmentItemRequest `json:"items"`
}

type updateShipmentRequest struct {
	OriginAddress        string                `json:"originAddress"`
	DestinationAddress   string                `json:"destinationAddress"`
	RecipientName        string                `json:"recipientName"`
	ExpectedDeliveryDate time.Time             `json:"expectedDeliveryDate"`
	Items                []shipmentItemRequest `json:"items"`
}

type changeShipmentStatusRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

func shipmentItemsFromRequest(reqs []shipmentItemRequest) ([]shipment.Item, error) {
	items := make([]shipment.Item, 0, len(reqs))
	for _, req := range reqs {
		item, err := shipment.NewItem(
			kernel.NewUUID(),
			req.ItemID,
			req.ItemName,
			req.Quantity,
			kernel.NewMoneyFromFloat(req.UnitPrice),
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Create handles POST /shipments.
func (h *ShipmentHandlers) Create(ctx echo.Context) error {
	var req createShipmentRequest
	if err := ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return fail(ctx, err)
	}

	items, err := shipmentItemsFromRequest(req.Items)
	if err != nil {
		return fail(ctx, err)
	}

	shipmentID := kernel.NewUUID()
	cmd, err := commands.NewCreateShipmentCommand(
		shipmentID,
		orderID,
		req.TrackingNumber,
		req.OriginAddress,
		req.DestinationAddress,
		req.RecipientName,
		req.ExpectedDeliveryDate,
		items,
	)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.createHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusCreated, "shipment created", map[string]string{
		"id":             shipmentID.String(),
		"trackingNumber": cmd.TrackingNumber(),
	})
}

// Update handles PUT /shipments/:id.
func (h *ShipmentHandlers) Update(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req updateShipmentRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	items, err := shipmentItemsFromRequest(req.Items)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewUpdateShipmentCommand(
		shipmentID,
		req.OriginAddress,
		req.DestinationAddress,
		req.RecipientName,
		req.ExpectedDeliveryDate,
		items,
	)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.updateHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "shipment updated", nil)
}

// ChangeStatus handles PUT /shipments/:id/status.
func (h *ShipmentHandlers) ChangeStatus(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req changeShipmentStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	target, err := shipment.StatusFromString(req.Status)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewChangeShipmentStatusCommand(shipmentID, target, req.Location, req.Notes)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "shipment status changed", nil)
}

// Delete handles DELETE /shipments/:id.
func (h *ShipmentHandlers) Delete(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewDeleteShipmentCommand(shipmentID)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.deleteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "shipment deleted", nil)
}

// Get handles GET /shipments/:id.
func (h *ShipmentHandlers) Get(ctx echo.Context) error {
	shipmentID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	query, err := queries.NewGetShipmentQuery(shipmentID)
	if err != nil {
		return fail(ctx, err)
	}

	response, err := h.getHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "shipment", response)
}

// Track handles GET /shipments/tracking/:trackingNumber.
func (h *ShipmentHandlers) Track(ctx echo.Context) error {
	query, err := queries.NewTrackShipmentQuery(ctx.Param("trackingNumber"))
	if err != nil {
		return fail(ctx, err)
	}

	response, err := h.trackHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "shipment", response)
}

// List handles GET /shipments?status=&orderId=&search=.
func (h *ShipmentHandlers) List(ctx echo.Context) error {
	status := shipment.Unknown
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := shipment.StatusFromString(raw)
		if err != nil {
			return fail(ctx, err)
		}
		status = parsed
	}

	var orderID *kernel.UUID
	if raw := ctx.QueryParam("orderId"); raw != "" {
		parsed, err := kernel.UUIDFromString(raw)
		if err != nil {
			return fail(ctx, err)
		}
		orderID = &parsed
	}

	query, err := queries.NewListShipmentsQuery(status, orderID, ctx.QueryParam("search"))
	if err != nil {
		return fail(ctx, err)
	}

	shipments, err := h.listHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "shipments", shipments)
}

// Recent handles GET /shipments/recent?limit=.
func (h *ShipmentHandlers) Recent(ctx echo.Context) error {
	limit := defaultRecentLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fail(ctx, errs.NewValueIsInvalidErrorWithCause("limit", err))
		}
		limit = parsed
	}

	query, err := queries.NewGetRecentShipmentsQuery(limit)
	if err != nil {
		return fail(ctx, err)
	}

	shipments, err := h.recentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "recent shipments", shipments)
}

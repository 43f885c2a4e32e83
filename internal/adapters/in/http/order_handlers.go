package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
)

const defaultRecentLimit = 10

// OrderHandlers serves the order resource.
type OrderHandlers struct {
	createHandler       commands.CreateOrderCommandHandler
	updateHandler       commands.UpdateOrderCommandHandler
	changeStatusHandler commands.ChangeOrderStatusCommandHandler
	deleteHandler       commands.DeleteOrderCommandHandler

	getHandler    queries.GetOrderQueryHandler
	listHandler   queries.ListOrdersQueryHandler
	recentHandler queries.GetRecentOrdersQueryHandler
}

// NewOrderHandlers creates the order handler group.
func NewOrderHandlers(
	createHandler commands.CreateOrderCommandHandler,
	updateHandler commands.UpdateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	deleteHandler commands.DeleteOrderCommandHandler,
	getHandler queries.GetOrderQueryHandler,
	listHandler queries.ListOrdersQueryHandler,
	recentHandler queries.GetRecentOrdersQueryHandler,
) *OrderHandlers {
	return &OrderHandlers{
		createHandler:       createHandler,
		updateHandler:       updateHandler,
		changeStatusHandler: changeStatusHandler,
		deleteHandler:       deleteHandler,
		getHandler:          getHandler,
		listHandler:         listHandler,
		recentHandler:       recentHandler,
	}
}

type orderItemRequest struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type createOrderRequest struct {
	CustomerID      string             `json:"customerId"`
	CustomerName    string             `json:"customerName"`
	Items           []orderItemRequest `json:"items"`
	ShippingAddress string             `json:"shippingAddress"`
	BillingAddress  string             `json:"billingAddress"`
	Notes           string             `json:"notes"`
}

type updateOrderRequest struct {
	Items           []orderItemRequest `json:"items"`
	ShippingAddress string             `json:"shippingAddress"`
	BillingAddress  string             `json:"billingAddress"`
	Notes           string             `json:"notes"`
}

type changeStatusRequest struct {
	Notes string `json:"notes"`
}

func orderItemsFromRequest(reqs []orderItemRequest) ([]order.Item, error) {
	items := make([]order.Item, 0, len(reqs))
	for _, req := range reqs {
		item, err := order.NewItem(
			req.ProductID,
			req.ProductName,
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

// Create handles POST /orders.
func (h *OrderHandlers) Create(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	items, err := orderItemsFromRequest(req.Items)
	if err != nil {
		return fail(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.CustomerID,
		req.CustomerName,
		items,
		req.ShippingAddress,
		req.BillingAddress,
		req.Notes,
	)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.createHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusCreated, "order created", map[string]string{"id": orderID.String()})
}

// Update handles PUT /orders/:id.
func (h *OrderHandlers) Update(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req updateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	items, err := orderItemsFromRequest(req.Items)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderCommand(orderID, items, req.ShippingAddress, req.BillingAddress, req.Notes)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.updateHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "order updated", nil)
}

// ChangeStatus handles PATCH /orders/:id/status?status=.
func (h *OrderHandlers) ChangeStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	target, err := order.StatusFromString(ctx.QueryParam("status"))
	if err != nil {
		return fail(ctx, err)
	}

	var req changeStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, req.Notes)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "order status changed", nil)
}

// Delete handles DELETE /orders/:id.
func (h *OrderHandlers) Delete(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.deleteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "order deleted", nil)
}

// Get handles GET /orders/:id.
func (h *OrderHandlers) Get(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return fail(ctx, err)
	}

	response, err := h.getHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "order", response)
}

// List handles GET /orders?status=&customerId=&search=.
func (h *OrderHandlers) List(ctx echo.Context) error {
	status := order.Unknown
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := order.StatusFromString(raw)
		if err != nil {
			return fail(ctx, err)
		}
		status = parsed
	}

	query, err := queries.NewListOrdersQuery(status, ctx.QueryParam("customerId"), ctx.QueryParam("search"))
	if err != nil {
		return fail(ctx, err)
	}

	orders, err := h.listHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "orders", orders)
}

// Recent handles GET /orders/recent?limit=.
func (h *OrderHandlers) Recent(ctx echo.Context) error {
	limit := defaultRecentLimit
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fail(ctx, errs.NewValueIsInvalidErrorWithCause("limit", err))
		}
		limit = parsed
	}

	query, err := queries.NewGetRecentOrdersQuery(limit)
	if err != nil {
		return fail(ctx, err)
	}

	orders, err := h.recentHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "recent orders", orders)
}

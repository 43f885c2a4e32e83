package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// InventoryHandlers serves the inventory resource.
type InventoryHandlers struct {
	createHandler         commands.CreateInventoryItemCommandHandler
	updateHandler         commands.UpdateInventoryItemCommandHandler
	changeQuantityHandler commands.ChangeInventoryQuantityCommandHandler
	deleteHandler         commands.DeleteInventoryItemCommandHandler

	getHandler      queries.GetInventoryItemQueryHandler
	listHandler     queries.ListInventoryItemsQueryHandler
	lowStockHandler queries.GetLowStockItemsQueryHandler
	searchHandler   queries.SearchInventoryQueryHandler
}

// NewInventoryHandlers creates the inventory handler group.
func NewInventoryHandlers(
	createHandler commands.CreateInventoryItemCommandHandler,
	updateHandler commands.UpdateInventoryItemCommandHandler,
	changeQuantityHandler commands.ChangeInventoryQuantityCommandHandler,
	deleteHandler commands.DeleteInventoryItemCommandHandler,
	getHandler queries.GetInventoryItemQueryHandler,
	listHandler queries.ListInventoryItemsQueryHandler,
	lowStockHandler queries.GetLowStockItemsQueryHandler,
	searchHandler queries.SearchInventoryQueryHandler,
) *InventoryHandlers {
	return &InventoryHandlers{
		createHandler:         createHandler,
		updateHandler:         updateHandler,
		changeQuantityHandler: changeQuantityHandler,
		deleteHandler:         deleteHandler,
		getHandler:            getHandler,
		listHandler:           listHandler,
		lowStockHandler:       lowStockHandler,
		searchHandler:         searchHandler,
	}
}

type inventoryItemRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	Category        string  `json:"category"`
	Location        string  `json:"location"`
	SKU             string  `json:"sku"`
	MinimumQuantity int     `json:"minimumQuantity"`
}

type changeQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Create handles POST /inventory.
func (h *InventoryHandlers) Create(ctx echo.Context) error {
	var req inventoryItemRequest
	if err := ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	itemID := kernel.NewUUID()
	cmd, err := commands.NewCreateInventoryItemCommand(
		itemID,
		req.Name,
		req.Description,
		req.Quantity,
		kernel.NewMoneyFromFloat(req.UnitPrice),
		req.Category,
		req.Location,
		req.SKU,
		req.MinimumQuantity,
	)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.createHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusCreated, "inventory item created", map[string]string{"id": itemID.String()})
}

// Update handles PUT /inventory/:id.
func (h *InventoryHandlers) Update(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req inventoryItemRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewUpdateInventoryItemCommand(
		itemID,
		req.Name,
		req.Description,
		kernel.NewMoneyFromFloat(req.UnitPrice),
		req.Category,
		req.Location,
		req.MinimumQuantity,
	)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.updateHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "inventory item updated", nil)
}

// ChangeQuantity handles PUT /inventory/:id/quantity.
func (h *InventoryHandlers) ChangeQuantity(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	var req changeQuantityRequest
	if err = ctx.Bind(&req); err != nil {
		return fail(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewChangeInventoryQuantityCommand(itemID, req.Quantity)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.changeQuantityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "quantity changed", nil)
}

// Delete handles DELETE /inventory/:id.
func (h *InventoryHandlers) Delete(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewDeleteInventoryItemCommand(itemID)
	if err != nil {
		return fail(ctx, err)
	}

	if err = h.deleteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "inventory item deleted", nil)
}

// Get handles GET /inventory/:id.
func (h *InventoryHandlers) Get(ctx echo.Context) error {
	itemID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return fail(ctx, err)
	}

	query, err := queries.NewGetInventoryItemQuery(itemID)
	if err != nil {
		return fail(ctx, err)
	}

	item, err := h.getHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "inventory item", item)
}

// List handles GET /inventory?page=&size=.
func (h *InventoryHandlers) List(ctx echo.Context) error {
	page, err := intQueryParam(ctx, "page", 1)
	if err != nil {
		return fail(ctx, err)
	}
	size, err := intQueryParam(ctx, "size", queries.DefaultPageSize)
	if err != nil {
		return fail(ctx, err)
	}

	query, err := queries.NewListInventoryItemsQuery(page, size)
	if err != nil {
		return fail(ctx, err)
	}

	items, err := h.listHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "inventory items", items)
}

// LowStock handles GET /inventory/low-stock?threshold=.
func (h *InventoryHandlers) LowStock(ctx echo.Context) error {
	query := queries.NewGetLowStockItemsQuery()
	if raw := ctx.QueryParam("threshold"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil {
			return fail(ctx, errs.NewValueIsInvalidErrorWithCause("threshold", err))
		}
		if query, err = queries.NewGetLowStockItemsQueryWithThreshold(threshold); err != nil {
			return fail(ctx, err)
		}
	}

	items, err := h.lowStockHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "low stock items", items)
}

// intQueryParam parses an optional integer query parameter.
func intQueryParam(ctx echo.Context, name string, fallback int) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

// Search handles GET /inventory/search?query=.
func (h *InventoryHandlers) Search(ctx echo.Context) error {
	query, err := queries.NewSearchInventoryQuery(ctx.QueryParam("query"))
	if err != nil {
		return fail(ctx, err)
	}

	items, err := h.searchHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	return respond(ctx, http.StatusOK, "search results", items)
}

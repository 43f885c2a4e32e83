package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server wires the per-resource handlers into an echo router.
type Server struct {
	auth      *AuthHandlers
	inventory *InventoryHandlers
	orders    *OrderHandlers
	shipments *ShipmentHandlers
	users     *UserHandlers

	authMiddleware *AuthMiddleware
}

// NewServer creates the HTTP server from the per-resource handler groups.
func NewServer(
	auth *AuthHandlers,
	inventory *InventoryHandlers,
	orders *OrderHandlers,
	shipments *ShipmentHandlers,
	users *UserHandlers,
	authMiddleware *AuthMiddleware,
) *Server {
	return &Server{
		auth:           auth,
		inventory:      inventory,
		orders:         orders,
		shipments:      shipments,
		users:          users,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes attaches all routes to the echo instance. Login and health
// are the only endpoints outside the bearer token wall.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())

	e.GET("/health", s.health)

	api := e.Group("/api/v1")
	api.POST("/auth/login", s.auth.Login)

	secured := api.Group("", s.authMiddleware.Authenticate)
	secured.GET("/auth/me", s.auth.Me)
	secured.POST("/auth/logout", s.auth.Logout)

	secured.GET("/inventory", s.inventory.List)
	secured.POST("/inventory", s.inventory.Create)
	secured.GET("/inventory/low-stock", s.inventory.LowStock)
	secured.GET("/inventory/search", s.inventory.Search)
	secured.GET("/inventory/:id", s.inventory.Get)
	secured.PUT("/inventory/:id", s.inventory.Update)
	secured.DELETE("/inventory/:id", s.inventory.Delete)
	secured.PUT("/inventory/:id/quantity", s.inventory.ChangeQuantity)

	secured.GET("/orders", s.orders.List)
	secured.POST("/orders", s.orders.Create)
	secured.GET("/orders/recent", s.orders.Recent)
	secured.GET("/orders/:id", s.orders.Get)
	secured.PUT("/orders/:id", s.orders.Update)
	secured.DELETE("/orders/:id", s.orders.Delete)
	secured.PATCH("/orders/:id/status", s.orders.ChangeStatus)

	secured.GET("/shipments", s.shipments.List)
	secured.POST("/shipments", s.shipments.Create)
	secured.GET("/shipments/recent", s.shipments.Recent)
	secured.GET("/shipments/tracking/:trackingNumber", s.shipments.Track)
	secured.GET("/shipments/:id", s.shipments.Get)
	secured.PUT("/shipments/:id", s.shipments.Update)
	secured.DELETE("/shipments/:id", s.shipments.Delete)
	secured.PUT("/shipments/:id/status", s.shipments.ChangeStatus)

	secured.GET("/users", s.users.List)
	secured.POST("/users", s.users.Create)
	secured.GET("/users/:id", s.users.Get)
	secured.PUT("/users/:id", s.users.Update)
	secured.DELETE("/users/:id", s.users.Delete)
}

func (s *Server) health(ctx echo.Context) error {
	return respond(ctx, http.StatusOK, "ok", map[string]string{"status": "up"})
}

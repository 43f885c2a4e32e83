package cmd

import (
	"gorm.io/gorm"

	httpin "logistics/internal/adapters/in/http"
	"logistics/internal/adapters/out/postgres"
	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/token"
)

// CompositionRoot wires adapters into use case handlers. Handlers are cheap
// value objects, so each Create method builds a fresh one.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	cache      ports.Cache
	tokens     *token.Service
	policy     services.AccessPolicy
}

// NewCompositionRoot creates the composition root from the shared
// infrastructure handles.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, cache ports.Cache) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		cache:      cache,
		tokens:     token.NewService(configs.JWTSecret, configs.TokenExpiry),
		policy:     services.NewAccessPolicy(),
	}
}

func (c *CompositionRoot) inventoryUoWFactory() commands.InventoryUoWFactory {
	return FuncInventoryUoWFactory(func() commands.InventoryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) userUoWFactory() commands.UserUoWFactory {
	return FuncUserUoWFactory(func() commands.UserUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateInventoryItemCommandHandler() commands.CreateInventoryItemCommandHandler {
	return commands.NewCreateInventoryItemCommandHandler(c.inventoryUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateUpdateInventoryItemCommandHandler() commands.UpdateInventoryItemCommandHandler {
	return commands.NewUpdateInventoryItemCommandHandler(c.inventoryUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateChangeInventoryQuantityCommandHandler() commands.ChangeInventoryQuantityCommandHandler {
	return commands.NewChangeInventoryQuantityCommandHandler(c.inventoryUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateDeleteInventoryItemCommandHandler() commands.DeleteInventoryItemCommandHandler {
	return commands.NewDeleteInventoryItemCommandHandler(c.inventoryUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateUpdateOrderCommandHandler() commands.UpdateOrderCommandHandler {
	return commands.NewUpdateOrderCommandHandler(c.orderUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	return commands.NewCreateShipmentCommandHandler(c.shipmentUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateUpdateShipmentCommandHandler() commands.UpdateShipmentCommandHandler {
	return commands.NewUpdateShipmentCommandHandler(c.shipmentUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateChangeShipmentStatusCommandHandler() commands.ChangeShipmentStatusCommandHandler {
	return commands.NewChangeShipmentStatusCommandHandler(c.shipmentUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateDeleteShipmentCommandHandler() commands.DeleteShipmentCommandHandler {
	return commands.NewDeleteShipmentCommandHandler(c.shipmentUoWFactory(), c.cache)
}

func (c *CompositionRoot) CreateCreateUserCommandHandler() commands.CreateUserCommandHandler {
	return commands.NewCreateUserCommandHandler(c.userUoWFactory(), c.policy, c.cache)
}

func (c *CompositionRoot) CreateUpdateUserCommandHandler() commands.UpdateUserCommandHandler {
	return commands.NewUpdateUserCommandHandler(c.userUoWFactory(), c.policy, c.cache)
}

func (c *CompositionRoot) CreateDeleteUserCommandHandler() commands.DeleteUserCommandHandler {
	return commands.NewDeleteUserCommandHandler(c.userUoWFactory(), c.policy, c.cache)
}

func (c *CompositionRoot) CreateLoginCommandHandler() commands.LoginCommandHandler {
	return commands.NewLoginCommandHandler(c.userUoWFactory(), c.tokens)
}

func (c *CompositionRoot) CreateGetInventoryItemQueryHandler() queries.GetInventoryItemQueryHandler {
	return queries.NewGetInventoryItemQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateListInventoryItemsQueryHandler() queries.ListInventoryItemsQueryHandler {
	return queries.NewListInventoryItemsQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateGetLowStockItemsQueryHandler() queries.GetLowStockItemsQueryHandler {
	return queries.NewGetLowStockItemsQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateSearchInventoryQueryHandler() queries.SearchInventoryQueryHandler {
	return queries.NewSearchInventoryQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateGetRecentOrdersQueryHandler() queries.GetRecentOrdersQueryHandler {
	return queries.NewGetRecentOrdersQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateGetShipmentQueryHandler() queries.GetShipmentQueryHandler {
	return queries.NewGetShipmentQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateTrackShipmentQueryHandler() queries.TrackShipmentQueryHandler {
	return queries.NewTrackShipmentQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateListShipmentsQueryHandler() queries.ListShipmentsQueryHandler {
	return queries.NewListShipmentsQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateGetRecentShipmentsQueryHandler() queries.GetRecentShipmentsQueryHandler {
	return queries.NewGetRecentShipmentsQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateGetUserQueryHandler() queries.GetUserQueryHandler {
	return queries.NewGetUserQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListUsersQueryHandler() queries.ListUsersQueryHandler {
	return queries.NewListUsersQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the complete REST surface.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	authHandlers := httpin.NewAuthHandlers(
		c.CreateLoginCommandHandler(),
		c.CreateGetUserQueryHandler(),
	)

	inventoryHandlers := httpin.NewInventoryHandlers(
		c.CreateCreateInventoryItemCommandHandler(),
		c.CreateUpdateInventoryItemCommandHandler(),
		c.CreateChangeInventoryQuantityCommandHandler(),
		c.CreateDeleteInventoryItemCommandHandler(),
		c.CreateGetInventoryItemQueryHandler(),
		c.CreateListInventoryItemsQueryHandler(),
		c.CreateGetLowStockItemsQueryHandler(),
		c.CreateSearchInventoryQueryHandler(),
	)

	orderHandlers := httpin.NewOrderHandlers(
		c.CreateCreateOrderCommandHandler(),
		c.CreateUpdateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateDeleteOrderCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateGetRecentOrdersQueryHandler(),
	)

	shipmentHandlers := httpin.NewShipmentHandlers(
		c.CreateCreateShipmentCommandHandler(),
		c.CreateUpdateShipmentCommandHandler(),
		c.CreateChangeShipmentStatusCommandHandler(),
		c.CreateDeleteShipmentCommandHandler(),
		c.CreateGetShipmentQueryHandler(),
		c.CreateTrackShipmentQueryHandler(),
		c.CreateListShipmentsQueryHandler(),
		c.CreateGetRecentShipmentsQueryHandler(),
	)

	userHandlers := httpin.NewUserHandlers(
		c.CreateCreateUserCommandHandler(),
		c.CreateUpdateUserCommandHandler(),
		c.CreateDeleteUserCommandHandler(),
		c.CreateGetUserQueryHandler(),
		c.CreateListUsersQueryHandler(),
	)

	authMiddleware := httpin.NewAuthMiddleware(c.tokens, c.uowFactory.Create().UserRepository())

	return httpin.NewServer(
		authHandlers,
		inventoryHandlers,
		orderHandlers,
		shipmentHandlers,
		userHandlers,
		authMiddleware,
	)
}

type FuncInventoryUoWFactory func() commands.InventoryUoW

func (f FuncInventoryUoWFactory) Create() commands.InventoryUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncUserUoWFactory func() commands.UserUoW

func (f FuncUserUoWFactory) Create() commands.UserUoW {
	return f()
}

package postgres_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	postgresadapter "logistics/internal/adapters/out/postgres"
	"logistics/internal/adapters/out/postgres/inventoryrepo"
	"logistics/internal/adapters/out/postgres/orderrepo"
	"logistics/internal/core/domain/model/inventory"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/ports"
)

// UnitOfWorkIntegrationTestSuite exercises the GORM unit of work against a
// real PostgreSQL instance.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&inventoryrepo.ItemDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderStatusEventDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE inventory_items, orders, order_items, order_status_history").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_CreatesIsolatedInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "factory should create separate instances")
	suite.NotNil(uow1.InventoryRepository())
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow2.ShipmentRepository())
	suite.NotNil(uow2.UserRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Second begin while a transaction is active is a no-op.
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "commit without begin should fail")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "rollback without begin should fail")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommittedWritesAreVisible() {
	ctx := context.Background()
	uow := suite.factory.Create()

	item := suite.createTestItem("WID-001")

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.InventoryRepository().Add(ctx, item)
	suite.Require().NoError(err)

	// Visible within the transaction.
	loaded, err := uow.InventoryRepository().Get(ctx, item.ID())
	suite.Require().NoError(err)
	suite.True(item.ID().IsEqual(loaded.ID()))

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Visible to a fresh unit of work after commit.
	loaded, err = suite.factory.Create().InventoryRepository().Get(ctx, item.ID())
	suite.Require().NoError(err)
	suite.True(item.ID().IsEqual(loaded.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsAllChanges() {
	ctx := context.Background()
	uow := suite.factory.Create()

	item := suite.createTestItem("WID-002")
	testOrder := suite.createTestOrder()

	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.InventoryRepository().Add(ctx, item)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()

	_, err = newUow.InventoryRepository().Get(ctx, item.ID())
	suite.Require().Error(err, "item should not exist after rollback")

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "order should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionIsolation() {
	ctx := context.Background()

	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	item1 := suite.createTestItem("WID-003")
	item2 := suite.createTestItem("WID-004")

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))

	suite.Require().NoError(uow1.InventoryRepository().Add(ctx, item1))
	suite.Require().NoError(uow2.InventoryRepository().Add(ctx, item2))

	_, err := uow1.InventoryRepository().Get(ctx, item2.ID())
	suite.Require().Error(err, "uow1 should not see uncommitted writes of uow2")

	_, err = uow2.InventoryRepository().Get(ctx, item1.ID())
	suite.Require().Error(err, "uow2 should not see uncommitted writes of uow1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	newUow := suite.factory.Create()

	_, err = newUow.InventoryRepository().Get(ctx, item1.ID())
	suite.Require().NoError(err, "committed item should persist")

	_, err = newUow.InventoryRepository().Get(ctx, item2.ID())
	suite.Require().Error(err, "rolled back item should not persist")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestWithoutTransactionAutoCommits() {
	ctx := context.Background()
	uow := suite.factory.Create()

	item := suite.createTestItem("WID-005")

	err := uow.InventoryRepository().Add(ctx, item)
	suite.Require().NoError(err)

	loaded, err := suite.factory.Create().InventoryRepository().Get(ctx, item.ID())
	suite.Require().NoError(err)
	suite.True(item.ID().IsEqual(loaded.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOrderChildRowsPersistWithParent() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.createTestOrder()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	loaded, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Len(loaded.Items(), len(testOrder.Items()))
	suite.Len(loaded.History(), 1, "creation event should be persisted")
	suite.Equal(order.Pending, loaded.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestItem(sku string) *inventory.Item {
	item, err := inventory.NewItem(
		kernel.NewUUID(),
		"Widget",
		"a test widget",
		20,
		kernel.NewMoneyFromFloat(9.99),
		"widgets",
		"aisle 3",
		sku,
		5,
	)
	suite.Require().NoError(err)
	return item
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	item, err := order.NewItem("prod-1", "Widget", 2, kernel.NewMoneyFromFloat(9.99))
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(),
		fmt.Sprintf("cust-%s", kernel.NewUUID().String()[:8]),
		"Test Customer",
		[]order.Item{item},
		"1 Shipping St",
		"1 Billing St",
		"",
	)
	suite.Require().NoError(err)
	return testOrder
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}

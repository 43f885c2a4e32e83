package commands_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/domain/model/inventory"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/core/domain/model/user"
	"logistics/internal/core/ports"
)

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) Add(ctx context.Context, a *inventory.Item) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockInventoryRepository) Update(ctx context.Context, a *inventory.Item) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockInventoryRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockInventoryRepository) Get(ctx context.Context, id kernel.UUID) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}
func (m *MockInventoryRepository) GetBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}
func (m *MockInventoryRepository) GetAll(_ context.Context) ([]*inventory.Item, error) {
	panic("not implemented in mock")
}
func (m *MockInventoryRepository) GetAllLowStock(_ context.Context) ([]*inventory.Item, error) {
	panic("not implemented in mock")
}
func (m *MockInventoryRepository) Search(_ context.Context, _ string) ([]*inventory.Item, error) {
	panic("not implemented in mock")
}

type MockInventoryUoW struct{ mock.Mock }

func (m *MockInventoryUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockInventoryUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockInventoryUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockInventoryUoW) InventoryRepository() ports.InventoryRepository {
	args := m.Called()
	return args.Get(0).(ports.InventoryRepository)
}

type MockInventoryUoWFactory struct{ mock.Mock }

func (m *MockInventoryUoWFactory) Create() commands.InventoryUoW {
	args := m.Called()
	return args.Get(0).(commands.InventoryUoW)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, a *order.Order) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, a *order.Order) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetAll(_ context.Context) ([]*order.Order, error) {
	panic("not implemented in mock")
}
func (m *MockOrderRepository) GetAllByStatus(_ context.Context, _ order.Status) ([]*order.Order, error) {
	panic("not implemented in mock")
}
func (m *MockOrderRepository) GetAllByCustomer(_ context.Context, _ string) ([]*order.Order, error) {
	panic("not implemented in mock")
}
func (m *MockOrderRepository) GetRecent(_ context.Context, _ int) ([]*order.Order, error) {
	panic("not implemented in mock")
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Add(ctx context.Context, a *user.User) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockUserRepository) Update(ctx context.Context, a *user.User) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockUserRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepository) Get(ctx context.Context, id kernel.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}
func (m *MockUserRepository) GetAll(_ context.Context) ([]*user.User, error) {
	panic("not implemented in mock")
}
func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepository) CountAdminsForUpdate(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserUoW struct{ mock.Mock }

func (m *MockUserUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUserUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUserUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUserUoW) UserRepository() ports.UserRepository {
	args := m.Called()
	return args.Get(0).(ports.UserRepository)
}

type MockUserUoWFactory struct{ mock.Mock }

func (m *MockUserUoWFactory) Create() commands.UserUoW {
	args := m.Called()
	return args.Get(0).(commands.UserUoW)
}

// FakeCache records invalidated namespaces without a backing store.
type FakeCache struct {
	Invalidated []string
}

func (f *FakeCache) GetJSON(_ context.Context, _, _ string, _ any) error {
	return ports.ErrCacheMiss
}
func (f *FakeCache) SetJSON(_ context.Context, _, _ string, _ any) error { return nil }
func (f *FakeCache) Invalidate(_ context.Context, namespace string) error {
	f.Invalidated = append(f.Invalidated, namespace)
	return nil
}

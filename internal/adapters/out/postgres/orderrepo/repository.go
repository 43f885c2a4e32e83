package orderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
	"logistics/internal/pkg/errs"
)

// GormOrderRepository implements OrderRepository using GORM. The parent row
// carries the version used for conditional updates; child rows follow the
// parent's fate.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{db: db, tracker: tracker}
}

// Add saves a new order together with its line items and initial history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update performs the conditional write on the parent row, then reconciles
// the children. Line items are replaced wholesale since they carry no
// identity of their own. History rows are append-only: rows already stored
// stay untouched and only events past the stored count are inserted.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	now := time.Now().UTC()
	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Updates(map[string]any{
			"customer_id":        dto.CustomerID,
			"customer_name":      dto.CustomerName,
			"status":             dto.Status,
			"total_amount_cents": dto.TotalAmountCents,
			"shipping_address":   dto.ShippingAddress,
			"billing_address":    dto.BillingAddress,
			"notes":              dto.Notes,
			"version":            expected + 1,
			"updated_at":         now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.classifyMissedWrite(ctx, aggregate.ID(), expected)
	}

	if err := r.replaceItems(ctx, dto); err != nil {
		return err
	}
	if err := r.appendNewHistory(ctx, dto); err != nil {
		return err
	}

	aggregate.MarkPersisted(now)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Delete removes an order by identifier. Child rows go with it through the
// cascade constraint.
func (r *GormOrderRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&OrderDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}

	return nil
}

// Get retrieves an order by ID with its items and history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves all orders, newest first.
func (r *GormOrderRepository) GetAll(ctx context.Context) ([]*order.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

// GetAllByStatus retrieves all orders in the given status, newest first.
func (r *GormOrderRepository) GetAllByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return r.find(ctx, r.db.WithContext(ctx).Where("status = ?", status.String()))
}

// GetAllByCustomer retrieves all orders placed by the given customer, newest first.
func (r *GormOrderRepository) GetAllByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("customer_id = ?", customerID))
}

// GetRecent retrieves the most recently created orders up to limit.
func (r *GormOrderRepository) GetRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx).Limit(limit))
}

func (r *GormOrderRepository) find(ctx context.Context, query *gorm.DB) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := query.
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("created_at DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) replaceItems(ctx context.Context, dto OrderDTO) error {
	if err := r.db.WithContext(ctx).
		Delete(&OrderItemDTO{}, "order_id = ?", dto.ID).Error; err != nil {
		return err
	}
	if len(dto.Items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dto.Items).Error
}

func (r *GormOrderRepository) appendNewHistory(ctx context.Context, dto OrderDTO) error {
	var stored int64
	if err := r.db.WithContext(ctx).Model(&OrderStatusEventDTO{}).
		Where("order_id = ?", dto.ID).Count(&stored).Error; err != nil {
		return err
	}

	if int(stored) >= len(dto.History) {
		return nil
	}

	fresh := dto.History[stored:]
	return r.db.WithContext(ctx).Create(&fresh).Error
}

func (r *GormOrderRepository) classifyMissedWrite(ctx context.Context, id kernel.UUID, expected int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return errs.NewConcurrentModificationError("order", id.String(), expected)
}

package shipmentrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"
	"logistics/internal/pkg/errs"
)

// GormShipmentRepository implements ShipmentRepository using GORM. The parent
// row carries the version used for conditional updates.
type GormShipmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormShipmentRepository creates a new GORM shipment repository.
func NewGormShipmentRepository(db *gorm.DB, tracker aggregateTracker) *GormShipmentRepository {
	return &GormShipmentRepository{db: db, tracker: tracker}
}

// Add saves a new shipment together with its items and initial history.
func (r *GormShipmentRepository) Add(ctx context.Context, aggregate *shipment.Shipment) error {
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
// the children. Items are replaced wholesale; tracking history rows are
// append-only, so only events past the stored count are inserted.
func (r *GormShipmentRepository) Update(ctx context.Context, aggregate *shipment.Shipment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	now := time.Now().UTC()
	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&ShipmentDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Updates(map[string]any{
			"tracking_number":        dto.TrackingNumber,
			"status":                 dto.Status,
			"origin_address":         dto.OriginAddress,
			"destination_address":    dto.DestinationAddress,
			"recipient_name":         dto.RecipientName,
			"expected_delivery_date": dto.ExpectedDeliveryDate,
			"actual_delivery_date":   dto.ActualDeliveryDate,
			"version":                expected + 1,
			"updated_at":             now,
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

// Delete removes a shipment by identifier. Child rows go with it through the
// cascade constraint.
func (r *GormShipmentRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&ShipmentDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("shipment", id.String())
	}

	return nil
}

// Get retrieves a shipment by ID with its items and history.
func (r *GormShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShipmentDTO
	if err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrackingNumber retrieves a shipment by its tracking number.
func (r *GormShipmentRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*shipment.Shipment, error) {
	var dto ShipmentDTO
	if err := r.preloaded(ctx).First(&dto, "tracking_number = ?", trackingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shipment", trackingNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves all shipments, newest first.
func (r *GormShipmentRepository) GetAll(ctx context.Context) ([]*shipment.Shipment, error) {
	return r.find(ctx, r.preloaded(ctx))
}

// GetAllByStatus retrieves all shipments in the given status, newest first.
func (r *GormShipmentRepository) GetAllByStatus(ctx context.Context, status shipment.Status) ([]*shipment.Shipment, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	return r.find(ctx, r.preloaded(ctx).Where("status = ?", status.String()))
}

// GetAllByOrder retrieves all shipments for the given order, newest first.
func (r *GormShipmentRepository) GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*shipment.Shipment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	return r.find(ctx, r.preloaded(ctx).Where("order_id = ?", orderID.Bytes()))
}

// GetRecent retrieves the most recently created shipments up to limit.
func (r *GormShipmentRepository) GetRecent(ctx context.Context, limit int) ([]*shipment.Shipment, error) {
	return r.find(ctx, r.preloaded(ctx).Limit(limit))
}

func (r *GormShipmentRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func (r *GormShipmentRepository) find(_ context.Context, query *gorm.DB) ([]*shipment.Shipment, error) {
	var dtos []ShipmentDTO
	if err := query.Order("created_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	shipments := make([]*shipment.Shipment, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		shipments = append(shipments, s)
	}

	return shipments, nil
}

func (r *GormShipmentRepository) replaceItems(ctx context.Context, dto ShipmentDTO) error {
	if err := r.db.WithContext(ctx).
		Delete(&ShipmentItemDTO{}, "shipment_id = ?", dto.ID).Error; err != nil {
		return err
	}
	if len(dto.Items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dto.Items).Error
}

func (r *GormShipmentRepository) appendNewHistory(ctx context.Context, dto ShipmentDTO) error {
	var stored int64
	if err := r.db.WithContext(ctx).Model(&ShipmentStatusEventDTO{}).
		Where("shipment_id = ?", dto.ID).Count(&stored).Error; err != nil {
		return err
	}

	if int(stored) >= len(dto.History) {
		return nil
	}

	fresh := dto.History[stored:]
	return r.db.WithContext(ctx).Create(&fresh).Error
}

func (r *GormShipmentRepository) classifyMissedWrite(ctx context.Context, id kernel.UUID, expected int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ShipmentDTO{}).
		Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("shipment", id.String())
	}
	return errs.NewConcurrentModificationError("shipment", id.String(), expected)
}

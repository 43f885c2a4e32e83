package inventoryrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"logistics/internal/core/domain/model/inventory"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// GormInventoryRepository implements InventoryRepository using GORM.
// Updates are conditional on the version the aggregate was loaded at, so a
// concurrent writer makes the slower one fail instead of silently losing its
// changes.
type GormInventoryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormInventoryRepository creates a new GORM inventory repository.
func NewGormInventoryRepository(db *gorm.DB, tracker aggregateTracker) *GormInventoryRepository {
	return &GormInventoryRepository{db: db, tracker: tracker}
}

// Add saves a new inventory item.
func (r *GormInventoryRepository) Add(ctx context.Context, aggregate *inventory.Item) error {
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

// Update performs the conditional write. The row is only touched when its
// stored version still equals the version the aggregate was loaded at; the
// write itself advances the stored version by one. Zero affected rows means
// either the item vanished or another writer won the race, and the two cases
// map to different errors.
func (r *GormInventoryRepository) Update(ctx context.Context, aggregate *inventory.Item) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	now := time.Now().UTC()
	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Model(&ItemDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Updates(map[string]any{
			"name":             dto.Name,
			"description":      dto.Description,
			"quantity":         dto.Quantity,
			"unit_price_cents": dto.UnitPriceCents,
			"category":         dto.Category,
			"location":         dto.Location,
			"minimum_quantity": dto.MinimumQuantity,
			"version":          expected + 1,
			"updated_at":       now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.classifyMissedWrite(ctx, aggregate.ID(), expected)
	}

	aggregate.MarkPersisted(now)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Delete removes an item by identifier.
func (r *GormInventoryRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&ItemDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("item", id.String())
	}

	return nil
}

// Get retrieves an item by ID.
func (r *GormInventoryRepository) Get(ctx context.Context, id kernel.UUID) (*inventory.Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ItemDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("item", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetBySKU retrieves an item by its stock keeping unit.
func (r *GormInventoryRepository) GetBySKU(ctx context.Context, sku string) (*inventory.Item, error) {
	var dto ItemDTO
	if err := r.db.WithContext(ctx).First(&dto, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("item", sku)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves all items ordered by name.
func (r *GormInventoryRepository) GetAll(ctx context.Context) ([]*inventory.Item, error) {
	var dtos []ItemDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllLowStock retrieves items at or below their minimum quantity.
func (r *GormInventoryRepository) GetAllLowStock(ctx context.Context) ([]*inventory.Item, error) {
	var dtos []ItemDTO
	if err := r.db.WithContext(ctx).
		Where("quantity <= minimum_quantity").
		Order("quantity - minimum_quantity").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// Search retrieves items matching the term by name, category or SKU.
func (r *GormInventoryRepository) Search(ctx context.Context, term string) ([]*inventory.Item, error) {
	pattern := "%" + term + "%"

	var dtos []ItemDTO
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR category ILIKE ? OR sku ILIKE ?", pattern, pattern, pattern).
		Order("name").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func (r *GormInventoryRepository) classifyMissedWrite(ctx context.Context, id kernel.UUID, expected int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ItemDTO{}).
		Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("item", id.String())
	}
	return errs.NewConcurrentModificationError("item", id.String(), expected)
}

func toDomainSlice(dtos []ItemDTO) ([]*inventory.Item, error) {
	items := make([]*inventory.Item, 0, len(dtos))
	for _, dto := range dtos {
		item, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Package inventoryrepo persists inventory item aggregates, mapping between
// the domain model and its relational representation.
package inventoryrepo

import (
	"time"

	"github.com/google/uuid"

	"logistics/internal/core/domain/model/inventory"
	"logistics/internal/core/domain/model/kernel"
)

// ItemDTO represents the database structure for inventory items.
type ItemDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"not null"`
	Description     string
	Quantity        int    `gorm:"not null"`
	UnitPriceCents  int64  `gorm:"not null"`
	Category        string `gorm:"index"`
	Location        string
	SKU             string `gorm:"column:sku;uniqueIndex;not null"`
	MinimumQuantity int    `gorm:"not null"`
	Version         int64  `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides GORM's default naming to use "inventory_items".
func (ItemDTO) TableName() string {
	return "inventory_items"
}

func fromDomain(item *inventory.Item) ItemDTO {
	return ItemDTO{
		ID:              item.ID().Bytes(),
		Name:            item.Name(),
		Description:     item.Description(),
		Quantity:        item.Quantity(),
		UnitPriceCents:  item.UnitPrice().Cents(),
		Category:        item.Category(),
		Location:        item.Location(),
		SKU:             item.SKU(),
		MinimumQuantity: item.MinimumQuantity(),
		Version:         item.Version(),
		CreatedAt:       item.CreatedAt(),
		UpdatedAt:       item.UpdatedAt(),
	}
}

func toDomain(dto ItemDTO) (*inventory.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return inventory.RestoreItem(
		id,
		dto.Name,
		dto.Description,
		dto.Quantity,
		kernel.NewMoneyFromCents(dto.UnitPriceCents),
		dto.Category,
		dto.Location,
		dto.SKU,
		dto.MinimumQuantity,
		dto.Version,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

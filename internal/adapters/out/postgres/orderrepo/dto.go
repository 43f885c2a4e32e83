// Package orderrepo persists order aggregates together with their line items
// and status history.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for orders.
type OrderDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerID       string    `gorm:"not null;index"`
	CustomerName     string    `gorm:"not null"`
	Status           string    `gorm:"not null;index"`
	TotalAmountCents int64     `gorm:"not null"`
	ShippingAddress  string
	BillingAddress   string
	Notes            string
	Version          int64 `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Items   []OrderItemDTO        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []OrderStatusEventDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one line item row.
type OrderItemDTO struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	OrderID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID       string    `gorm:"not null"`
	ProductName     string    `gorm:"not null"`
	Quantity        int       `gorm:"not null"`
	UnitPriceCents  int64     `gorm:"not null"`
	TotalPriceCents int64     `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "order_items".
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// OrderStatusEventDTO represents one status history row. History rows are
// append-only.
type OrderStatusEventDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Status     string    `gorm:"not null"`
	OccurredAt time.Time `gorm:"not null"`
	Notes      string
}

// TableName overrides GORM's default naming to use "order_status_history".
func (OrderStatusEventDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:               o.ID().Bytes(),
		CustomerID:       o.CustomerID(),
		CustomerName:     o.CustomerName(),
		Status:           o.Status().String(),
		TotalAmountCents: o.TotalAmount().Cents(),
		ShippingAddress:  o.ShippingAddress(),
		BillingAddress:   o.BillingAddress(),
		Notes:            o.Notes(),
		Version:          o.Version(),
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
	}

	for _, item := range o.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:         dto.ID,
			ProductID:       item.ProductID(),
			ProductName:     item.ProductName(),
			Quantity:        item.Quantity(),
			UnitPriceCents:  item.UnitPrice().Cents(),
			TotalPriceCents: item.TotalPrice().Cents(),
		})
	}

	for _, event := range o.History() {
		dto.History = append(dto.History, OrderStatusEventDTO{
			OrderID:    dto.ID,
			Status:     event.Status().String(),
			OccurredAt: event.OccurredAt(),
			Notes:      event.Notes(),
		})
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, err := order.NewItem(
			itemDTO.ProductID,
			itemDTO.ProductName,
			itemDTO.Quantity,
			kernel.NewMoneyFromCents(itemDTO.UnitPriceCents),
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	history := make([]order.StatusEvent, 0, len(dto.History))
	for _, eventDTO := range dto.History {
		eventStatus, err := order.StatusFromString(eventDTO.Status)
		if err != nil {
			return nil, err
		}
		history = append(history, order.NewStatusEvent(eventStatus, eventDTO.OccurredAt, eventDTO.Notes))
	}

	return order.RestoreOrder(
		id,
		dto.CustomerID,
		dto.CustomerName,
		status,
		items,
		dto.ShippingAddress,
		dto.BillingAddress,
		dto.Notes,
		history,
		dto.Version,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

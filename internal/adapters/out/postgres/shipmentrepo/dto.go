// Package shipmentrepo persists shipment aggregates together with their items
// and tracking history.
package shipmentrepo

import (
	"time"

	"github.com/google/uuid"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/shipment"
)

// ShipmentDTO represents the database structure for shipments.
type ShipmentDTO struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID              uuid.UUID `gorm:"type:uuid;not null;index"`
	TrackingNumber       string    `gorm:"uniqueIndex;not null"`
	Status               string    `gorm:"not null;index"`
	OriginAddress        string
	DestinationAddress   string
	RecipientName        string
	ExpectedDeliveryDate time.Time
	ActualDeliveryDate   *time.Time
	Version              int64 `gorm:"not null"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Items   []ShipmentItemDTO        `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
	History []ShipmentStatusEventDTO `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

// TableName overrides GORM's default naming to use "shipments".
func (ShipmentDTO) TableName() string {
	return "shipments"
}

// ShipmentItemDTO represents one shipped item row. Unlike order line items
// these carry their own identity, since items are added and removed from a
// shipment individually.
type ShipmentItemDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID         string    `gorm:"not null"`
	ItemName       string    `gorm:"not null"`
	Quantity       int       `gorm:"not null"`
	UnitPriceCents int64     `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "shipment_items".
func (ShipmentItemDTO) TableName() string {
	return "shipment_items"
}

// ShipmentStatusEventDTO represents one tracking history row. History rows
// are append-only.
type ShipmentStatusEventDTO struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	ShipmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status     string    `gorm:"not null"`
	Location   string
	Notes      string
	OccurredAt time.Time `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "shipment_status_history".
func (ShipmentStatusEventDTO) TableName() string {
	return "shipment_status_history"
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	dto := ShipmentDTO{
		ID:                   s.ID().Bytes(),
		OrderID:              s.OrderID().Bytes(),
		TrackingNumber:       s.TrackingNumber(),
		Status:               s.Status().String(),
		OriginAddress:        s.OriginAddress(),
		DestinationAddress:   s.DestinationAddress(),
		RecipientName:        s.RecipientName(),
		ExpectedDeliveryDate: s.ExpectedDeliveryDate(),
		ActualDeliveryDate:   s.ActualDeliveryDate(),
		Version:              s.Version(),
		CreatedAt:            s.CreatedAt(),
		UpdatedAt:            s.UpdatedAt(),
	}

	for _, item := range s.Items() {
		dto.Items = append(dto.Items, ShipmentItemDTO{
			ID:             item.ID().Bytes(),
			ShipmentID:     dto.ID,
			ItemID:         item.ItemID(),
			ItemName:       item.ItemName(),
			Quantity:       item.Quantity(),
			UnitPriceCents: item.UnitPrice().Cents(),
		})
	}

	for _, event := range s.History() {
		dto.History = append(dto.History, ShipmentStatusEventDTO{
			ShipmentID: dto.ID,
			Status:     event.Status().String(),
			Location:   event.Location(),
			Notes:      event.Notes(),
			OccurredAt: event.OccurredAt(),
		})
	}

	return dto
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	status, err := shipment.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]shipment.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		itemID, err := kernel.UUIDFromBytes(itemDTO.ID[:])
		if err != nil {
			return nil, err
		}

		item, err := shipment.NewItem(
			itemID,
			itemDTO.ItemID,
			itemDTO.ItemName,
			itemDTO.Quantity,
			kernel.NewMoneyFromCents(itemDTO.UnitPriceCents),
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	history := make([]shipment.StatusEvent, 0, len(dto.History))
	for _, eventDTO := range dto.History {
		eventStatus, err := shipment.StatusFromString(eventDTO.Status)
		if err != nil {
			return nil, err
		}
		history = append(history, shipment.NewStatusEvent(
			eventStatus, eventDTO.OccurredAt, eventDTO.Location, eventDTO.Notes))
	}

	return shipment.RestoreShipment(
		id,
		orderID,
		dto.TrackingNumber,
		status,
		dto.OriginAddress,
		dto.DestinationAddress,
		dto.RecipientName,
		dto.ExpectedDeliveryDate,
		dto.ActualDeliveryDate,
		items,
		history,
		dto.Version,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

// Package shipment contains the shipment aggregate: a parcel travelling from
// an origin to a destination on behalf of an order. The shipment exclusively
// owns its items; their lifecycle is tied to the parent and items removed from
// the aggregate are deleted, never re-parented.
package shipment

import (
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var (
	// ErrShipmentIsNotConstructed is returned when a Shipment instance was not
	// created through NewShipment or RestoreShipment.
	ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment or RestoreShipment")
)

// Item is a line within a shipment, referencing the inventory item being
// shipped. Items belong to exactly one shipment and never outlive it.
type Item struct {
	id        kernel.UUID
	itemID    string
	itemName  string
	quantity  int
	unitPrice kernel.Money
}

// NewItem creates a shipment line for the referenced inventory item.
func NewItem(id kernel.UUID, itemID, itemName string, quantity int, unitPrice kernel.Money) (Item, error) {
	if err := id.Validate(); err != nil {
		return Item{}, err
	}
	if itemID == "" {
		return Item{}, errs.NewValueIsRequiredError("itemId")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := unitPrice.ValidateNonNegative("unitPrice"); err != nil {
		return Item{}, err
	}

	return Item{
		id:        id,
		itemID:    itemID,
		itemName:  itemName,
		quantity:  quantity,
		unitPrice: unitPrice,
	}, nil
}

// ID returns the shipment line's own identifier.
func (i Item) ID() kernel.UUID { return i.id }

// ItemID returns the referenced inventory item identifier.
func (i Item) ItemID() string { return i.itemID }

// ItemName returns the item name captured at shipping time.
func (i Item) ItemName() string { return i.itemName }

// Quantity returns the shipped quantity.
func (i Item) Quantity() int { return i.quantity }

// UnitPrice returns the per-unit price.
func (i Item) UnitPrice() kernel.Money { return i.unitPrice }

// StatusEvent is one append-only entry in a shipment's status history.
// Location and notes are optional carrier annotations.
type StatusEvent struct {
	status     Status
	occurredAt time.Time
	location   string
	notes      string
}

// NewStatusEvent creates a history entry for a status change.
func NewStatusEvent(status Status, occurredAt time.Time, location, notes string) StatusEvent {
	return StatusEvent{status: status, occurredAt: occurredAt, location: location, notes: notes}
}

// Status returns the status the shipment entered.
func (e StatusEvent) Status() Status { return e.status }

// OccurredAt returns when the change happened.
func (e StatusEvent) OccurredAt() time.Time { return e.occurredAt }

// Location returns the optional location annotation.
func (e StatusEvent) Location() string { return e.location }

// Notes returns the optional free-text annotation.
func (e StatusEvent) Notes() string { return e.notes }

// Shipment is the aggregate root for a physical delivery.
//
// Invariants:
//   - Must have a valid unique identifier, an order reference, and a unique
//     tracking number
//   - Status changes follow the transition table in Status
//   - The status history is append-only
//   - Items are exclusively owned: removing one deletes it
//   - Delivered shipments carry an actual delivery date
type Shipment struct {
	id                   kernel.UUID
	orderID              kernel.UUID
	trackingNumber       string
	status               Status
	originAddress        string
	destinationAddress   string
	recipientName        string
	expectedDeliveryDate time.Time
	actualDeliveryDate   *time.Time
	items                []Item
	history              []StatusEvent

	version   int64
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewShipment creates a new Shipment in Pending status.
func NewShipment(
	id kernel.UUID,
	orderID kernel.UUID,
	trackingNumber string,
	originAddress string,
	destinationAddress string,
	recipientName string,
	expectedDeliveryDate time.Time,
	items []Item,
) (*Shipment, error) {
	now := time.Now().UTC()
	s := &Shipment{
		status:               Pending,
		recipientName:        recipientName,
		expectedDeliveryDate: expectedDeliveryDate,
		items:                items,
		version:              1,
		createdAt:            now,
		updatedAt:            now,
		isConstructed:        true,
	}

	if err := errors.Join(
		s.setID(id),
		s.setOrderID(orderID),
		s.setTrackingNumber(trackingNumber),
		s.setAddresses(originAddress, destinationAddress),
	); err != nil {
		return nil, err
	}

	s.history = append(s.history, NewStatusEvent(Pending, now, originAddress, "shipment created"))
	return s, nil
}

// RestoreShipment reconstructs a Shipment from persistence.
func RestoreShipment(
	id kernel.UUID,
	orderID kernel.UUID,
	trackingNumber string,
	status Status,
	originAddress string,
	destinationAddress string,
	recipientName string,
	expectedDeliveryDate time.Time,
	actualDeliveryDate *time.Time,
	items []Item,
	history []StatusEvent,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*Shipment, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Shipment{
		id:                   id,
		orderID:              orderID,
		trackingNumber:       trackingNumber,
		status:               status,
		originAddress:        originAddress,
		destinationAddress:   destinationAddress,
		recipientName:        recipientName,
		expectedDeliveryDate: expectedDeliveryDate,
		actualDeliveryDate:   actualDeliveryDate,
		items:                items,
		history:              history,
		version:              version,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
		isConstructed:        true,
	}, nil
}

// Validate ensures the Shipment instance was properly constructed.
func (s *Shipment) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrShipmentIsNotConstructed
	}
	return nil
}

// IsEqual compares two shipments by their unique identifiers.
func (s *Shipment) IsEqual(other *Shipment) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the shipment's unique identifier.
func (s *Shipment) ID() kernel.UUID { return s.id }

// OrderID returns the identifier of the order being fulfilled.
func (s *Shipment) OrderID() kernel.UUID { return s.orderID }

// TrackingNumber returns the unique carrier tracking number.
func (s *Shipment) TrackingNumber() string { return s.trackingNumber }

// Status returns the current pipeline status.
func (s *Shipment) Status() Status { return s.status }

// OriginAddress returns the pickup address.
func (s *Shipment) OriginAddress() string { return s.originAddress }

// DestinationAddress returns the delivery address.
func (s *Shipment) DestinationAddress() string { return s.destinationAddress }

// RecipientName returns the addressee.
func (s *Shipment) RecipientName() string { return s.recipientName }

// ExpectedDeliveryDate returns the promised delivery date.
func (s *Shipment) ExpectedDeliveryDate() time.Time { return s.expectedDeliveryDate }

// ActualDeliveryDate returns the real delivery timestamp.
// Nil until the shipment reaches Delivered.
func (s *Shipment) ActualDeliveryDate() *time.Time { return s.actualDeliveryDate }

// Items returns the owned shipment lines.
func (s *Shipment) Items() []Item { return s.items }

// History returns the append-only status history, oldest first.
func (s *Shipment) History() []StatusEvent { return s.history }

// Version returns the optimistic-lock version the aggregate was loaded at.
func (s *Shipment) Version() int64 { return s.version }

// CreatedAt returns the immutable creation timestamp.
func (s *Shipment) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the last modification timestamp.
func (s *Shipment) UpdatedAt() time.Time { return s.updatedAt }

// ChangeStatus moves the shipment to the target status.
//
// The change is validated against the transition table before anything is
// modified; on an illegal transition the shipment is left untouched. A
// successful change appends one history entry with the optional location and
// notes, and reaching Delivered stamps the actual delivery date.
func (s *Shipment) ChangeStatus(target Status, location, notes string) error {
	newStatus, err := s.status.TransitionTo(target)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	s.status = newStatus
	s.history = append(s.history, NewStatusEvent(newStatus, now, location, notes))

	if newStatus == Delivered {
		s.actualDeliveryDate = &now
	}
	return nil
}

// UpdateDetails replaces the mutable shipment attributes. The item list is
// replaced wholesale: lines absent from the new list are deleted with the
// update, per the exclusive-ownership rule.
func (s *Shipment) UpdateDetails(
	originAddress string,
	destinationAddress string,
	recipientName string,
	expectedDeliveryDate time.Time,
	items []Item,
) error {
	if err := s.setAddresses(originAddress, destinationAddress); err != nil {
		return err
	}

	s.recipientName = recipientName
	s.expectedDeliveryDate = expectedDeliveryDate
	s.items = items
	return nil
}

// AddItem appends a line to the shipment.
func (s *Shipment) AddItem(item Item) {
	s.items = append(s.items, item)
}

// RemoveItem deletes the line with the given identifier from the shipment.
// Returns false when no such line exists.
func (s *Shipment) RemoveItem(id kernel.UUID) bool {
	for i, item := range s.items {
		if item.ID().IsEqual(id) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// MarkPersisted records a successful conditional write: the version advances
// by exactly one and the update timestamp is refreshed. Called by the
// persistence layer only after the compare-and-swap write committed.
func (s *Shipment) MarkPersisted(updatedAt time.Time) {
	s.version++
	s.updatedAt = updatedAt
}

func (s *Shipment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Shipment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	s.orderID = orderID
	return nil
}

func (s *Shipment) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	s.trackingNumber = trackingNumber
	return nil
}

func (s *Shipment) setAddresses(origin, destination string) error {
	if origin == "" {
		return errs.NewValueIsRequiredError("originAddress")
	}
	if destination == "" {
		return errs.NewValueIsRequiredError("destinationAddress")
	}
	s.originAddress = origin
	s.destinationAddress = destination
	return nil
}

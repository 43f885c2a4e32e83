package order

import (
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Item is a line position within an order. It is a value object owned by the
// order: totalPrice is always unitPrice multiplied by quantity.
type Item struct {
	productID   string
	productName string
	quantity    int
	unitPrice   kernel.Money
	totalPrice  kernel.Money
}

// NewItem creates an order line, validating that the product reference is set,
// quantity is positive, and the unit price is above zero. The total price is
// derived, never supplied.
func NewItem(productID, productName string, quantity int, unitPrice kernel.Money) (Item, error) {
	if productID == "" {
		return Item{}, errs.NewValueIsRequiredError("productId")
	}
	if productName == "" {
		return Item{}, errs.NewValueIsRequiredError("productName")
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := unitPrice.ValidatePositive("unitPrice"); err != nil {
		return Item{}, err
	}

	return Item{
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		unitPrice:   unitPrice,
		totalPrice:  unitPrice.Multiply(quantity),
	}, nil
}

// ProductID returns the referenced product identifier.
func (i Item) ProductID() string { return i.productID }

// ProductName returns the product name captured at ordering time.
func (i Item) ProductName() string { return i.productName }

// Quantity returns the ordered quantity.
func (i Item) Quantity() int { return i.quantity }

// UnitPrice returns the per-unit price.
func (i Item) UnitPrice() kernel.Money { return i.unitPrice }

// TotalPrice returns unit price multiplied by quantity.
func (i Item) TotalPrice() kernel.Money { return i.totalPrice }

// StatusEvent is one append-only entry in an order's status history.
type StatusEvent struct {
	status     Status
	occurredAt time.Time
	notes      string
}

// NewStatusEvent creates a history entry for a status change.
func NewStatusEvent(status Status, occurredAt time.Time, notes string) StatusEvent {
	return StatusEvent{status: status, occurredAt: occurredAt, notes: notes}
}

// Status returns the status the order entered.
func (e StatusEvent) Status() Status { return e.status }

// OccurredAt returns when the change happened.
func (e StatusEvent) OccurredAt() time.Time { return e.occurredAt }

// Notes returns the optional free-text annotation.
func (e StatusEvent) Notes() string { return e.notes }

// Order is the aggregate root for a customer order.
//
// Invariants:
//   - Must have a valid unique identifier and a customer reference
//   - Holds at least one item; totalAmount is the sum of item totals and is
//     always greater than zero
//   - Status changes follow the transition table in Status
//   - The status history is append-only
//   - Can only be created through NewOrder or RestoreOrder
type Order struct {
	id              kernel.UUID
	customerID      string
	customerName    string
	status          Status
	totalAmount     kernel.Money
	items           []Item
	shippingAddress string
	billingAddress  string
	notes           string
	history         []StatusEvent

	version   int64
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a new Order in Pending status.
// The total amount is computed from the items; an order without items or with
// a non-positive total is rejected.
func NewOrder(
	id kernel.UUID,
	customerID string,
	customerName string,
	items []Item,
	shippingAddress string,
	billingAddress string,
	notes string,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		status:          Pending,
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		notes:           notes,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomer(customerID, customerName),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	o.history = append(o.history, NewStatusEvent(Pending, now, "order created"))
	return o, nil
}

// RestoreOrder reconstructs an Order from persistence without re-running the
// creation side effects. The stored values are trusted except for structural
// validation of id and status.
func RestoreOrder(
	id kernel.UUID,
	customerID string,
	customerName string,
	status Status,
	items []Item,
	shippingAddress string,
	billingAddress string,
	notes string,
	history []StatusEvent,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		id:              id,
		customerID:      customerID,
		customerName:    customerName,
		status:          status,
		totalAmount:     totalOf(items),
		items:           items,
		shippingAddress: shippingAddress,
		billingAddress:  billingAddress,
		notes:           notes,
		history:         history,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() string { return o.customerID }

// CustomerName returns the ordering customer's display name.
func (o *Order) CustomerName() string { return o.customerName }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// TotalAmount returns the sum of all item totals.
func (o *Order) TotalAmount() kernel.Money { return o.totalAmount }

// Items returns the order lines in their original order.
func (o *Order) Items() []Item { return o.items }

// ShippingAddress returns the delivery address.
func (o *Order) ShippingAddress() string { return o.shippingAddress }

// BillingAddress returns the invoicing address.
func (o *Order) BillingAddress() string { return o.billingAddress }

// Notes returns the free-text order notes.
func (o *Order) Notes() string { return o.notes }

// History returns the append-only status history, oldest first.
func (o *Order) History() []StatusEvent { return o.history }

// Version returns the optimistic-lock version the aggregate was loaded at.
func (o *Order) Version() int64 { return o.version }

// CreatedAt returns the immutable creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last modification timestamp.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// ChangeStatus moves the order to the target status.
//
// The change is validated against the transition table before anything is
// modified; on an illegal transition the order is left untouched and an
// InvalidTransition error is returned. A successful change appends one entry
// to the status history.
func (o *Order) ChangeStatus(target Status, notes string) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.history = append(o.history, NewStatusEvent(newStatus, time.Now().UTC(), notes))
	return nil
}

// UpdateDetails replaces the mutable order attributes: addresses, notes, and
// the item list. Status and customer identity are not touched here; status
// changes go through ChangeStatus.
func (o *Order) UpdateDetails(items []Item, shippingAddress, billingAddress, notes string) error {
	if err := o.setItems(items); err != nil {
		return err
	}

	o.shippingAddress = shippingAddress
	o.billingAddress = billingAddress
	o.notes = notes
	return nil
}

// MarkPersisted records a successful conditional write: the version advances
// by exactly one and the update timestamp is refreshed. Called by the
// persistence layer only after the compare-and-swap write committed.
func (o *Order) MarkPersisted(updatedAt time.Time) {
	o.version++
	o.updatedAt = updatedAt
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(customerID, customerName string) error {
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerId")
	}
	if customerName == "" {
		return errs.NewValueIsRequiredError("customerName")
	}
	o.customerID = customerID
	o.customerName = customerName
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	total := totalOf(items)
	if err := total.ValidatePositive("totalAmount"); err != nil {
		return err
	}

	o.items = items
	o.totalAmount = total
	return nil
}

func totalOf(items []Item) kernel.Money {
	var total kernel.Money
	for _, item := range items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// Package inventory contains the inventory item aggregate: a stocked product
// identified by a unique SKU, with a quantity that must never go negative.
package inventory

import (
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

var (
	// ErrItemIsNotConstructed is returned when an Item instance was not created
	// through NewItem or RestoreItem.
	ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")
)

// Item is the aggregate root for a stocked product.
//
// Invariants:
//   - Must have a valid unique identifier and a non-empty SKU
//   - Quantity and minimum quantity are never negative
//   - Unit price is never negative
type Item struct {
	id              kernel.UUID
	name            string
	description     string
	quantity        int
	unitPrice       kernel.Money
	category        string
	location        string
	sku             string
	minimumQuantity int

	version   int64
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewItem creates a new inventory item.
// SKU uniqueness is a storage-level constraint; everything else is validated here.
func NewItem(
	id kernel.UUID,
	name string,
	description string,
	quantity int,
	unitPrice kernel.Money,
	category string,
	location string,
	sku string,
	minimumQuantity int,
) (*Item, error) {
	now := time.Now().UTC()
	item := &Item{
		description:   description,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setName(name),
		item.setSKU(sku),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
		item.setCategory(category),
		item.setLocation(location),
		item.setMinimumQuantity(minimumQuantity),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreItem reconstructs an Item from persistence.
func RestoreItem(
	id kernel.UUID,
	name string,
	description string,
	quantity int,
	unitPrice kernel.Money,
	category string,
	location string,
	sku string,
	minimumQuantity int,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Item{
		id:              id,
		name:            name,
		description:     description,
		quantity:        quantity,
		unitPrice:       unitPrice,
		category:        category,
		location:        location,
		sku:             sku,
		minimumQuantity: minimumQuantity,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Item instance was properly constructed.
func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

// IsEqual compares two items by their unique identifiers.
func (i *Item) IsEqual(other *Item) bool {
	return other != nil && i.id.IsEqual(other.id)
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID { return i.id }

// Name returns the product name.
func (i *Item) Name() string { return i.name }

// Description returns the free-text product description.
func (i *Item) Description() string { return i.description }

// Quantity returns the stocked quantity.
func (i *Item) Quantity() int { return i.quantity }

// UnitPrice returns the per-unit price.
func (i *Item) UnitPrice() kernel.Money { return i.unitPrice }

// Category returns the product category.
func (i *Item) Category() string { return i.category }

// Location returns the warehouse location code.
func (i *Item) Location() string { return i.location }

// SKU returns the unique stock keeping unit. Immutable after creation.
func (i *Item) SKU() string { return i.sku }

// MinimumQuantity returns the low-stock threshold.
func (i *Item) MinimumQuantity() int { return i.minimumQuantity }

// Version returns the optimistic-lock version the aggregate was loaded at.
func (i *Item) Version() int64 { return i.version }

// CreatedAt returns the immutable creation timestamp.
func (i *Item) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last modification timestamp.
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// IsLowStock reports whether the quantity is at or below the minimum.
func (i *Item) IsLowStock() bool {
	return i.quantity <= i.minimumQuantity
}

// ChangeQuantity sets the stocked quantity to an absolute value.
// Negative quantities are rejected and leave the item unchanged.
func (i *Item) ChangeQuantity(quantity int) error {
	return i.setQuantity(quantity)
}

// UpdateDetails replaces the mutable item attributes.
// The SKU is deliberately excluded: it identifies the product to external
// systems and does not change after creation.
func (i *Item) UpdateDetails(
	name string,
	description string,
	unitPrice kernel.Money,
	category string,
	location string,
	minimumQuantity int,
) error {
	if err := errors.Join(
		i.setName(name),
		i.setUnitPrice(unitPrice),
		i.setCategory(category),
		i.setLocation(location),
		i.setMinimumQuantity(minimumQuantity),
	); err != nil {
		return err
	}

	i.description = description
	return nil
}

// MarkPersisted records a successful conditional write: the version advances
// by exactly one and the update timestamp is refreshed. Called by the
// persistence layer only after the compare-and-swap write committed.
func (i *Item) MarkPersisted(updatedAt time.Time) {
	i.version++
	i.updatedAt = updatedAt
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	i.name = name
	return nil
}

func (i *Item) setSKU(sku string) error {
	if sku == "" {
		return errs.NewValueIsRequiredError("sku")
	}
	i.sku = sku
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is negative", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice kernel.Money) error {
	if err := unitPrice.ValidateNonNegative("unitPrice"); err != nil {
		return err
	}
	i.unitPrice = unitPrice
	return nil
}

func (i *Item) setCategory(category string) error {
	if category == "" {
		return errs.NewValueIsRequiredError("category")
	}
	i.category = category
	return nil
}

func (i *Item) setLocation(location string) error {
	if location == "" {
		return errs.NewValueIsRequiredError("location")
	}
	i.location = location
	return nil
}

func (i *Item) setMinimumQuantity(minimumQuantity int) error {
	if minimumQuantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("minimumQuantity",
			fmt.Errorf("%d is negative", minimumQuantity))
	}
	i.minimumQuantity = minimumQuantity
	return nil
}

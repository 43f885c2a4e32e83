package kernel

import (
	"fmt"
	"math"

	"logistics/internal/pkg/errs"
)

// Money is a value object representing a monetary amount in minor units
// (cents). Storing cents as an integer keeps arithmetic exact; the float
// conversions exist only at the JSON boundary.
//
// The zero value is a valid zero amount, so Money can be embedded freely in
// aggregates that allow free-of-charge positions.
type Money struct {
	cents int64
}

// NewMoneyFromCents creates a Money amount from minor units.
func NewMoneyFromCents(cents int64) Money {
	return Money{cents: cents}
}

// NewMoneyFromFloat converts a major-unit amount (e.g. 12.34) into Money,
// rounding to the nearest cent. Used when mapping request payloads.
func NewMoneyFromFloat(amount float64) Money {
	return Money{cents: int64(math.Round(amount * 100))}
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// Float64 returns the amount in major units for serialization.
func (m Money) Float64() float64 {
	return float64(m.cents) / 100
}

// Multiply returns the amount multiplied by a quantity.
func (m Money) Multiply(qty int) Money {
	return Money{cents: m.cents * int64(qty)}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// IsPositive reports whether the amount is above zero.
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsEqual reports whether two amounts are the same.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// String formats the amount in major units with two decimals.
func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Float64())
}

// ValidateNonNegative returns a validation error when the amount is negative.
// Prices and totals throughout the domain must never be below zero.
func (m Money) ValidateNonNegative(paramName string) error {
	if m.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(paramName,
			fmt.Errorf("%s is negative", m))
	}
	return nil
}

// ValidatePositive returns a validation error when the amount is zero or below.
func (m Money) ValidatePositive(paramName string) error {
	if !m.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause(paramName,
			fmt.Errorf("%s is not greater than 0", m))
	}
	return nil
}

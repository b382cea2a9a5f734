package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// basisPointsDenominator is the divisor for basis-point arithmetic; 100bp = 1%.
const basisPointsDenominator = 10_000

// Money is an immutable monetary amount held in integer minor units (paise).
// All arithmetic is integer-only so that commission splits recomputed at
// different times from the same order total always produce identical results.
//
// The zero value is a valid zero amount. Negative amounts are rejected by the
// constructor but can arise from Sub; callers check IsNegative where a
// negative result would violate an invariant.
type Money struct {
	paise int64
}

// NewMoney creates a Money amount from minor units (paise).
// Rejects negative amounts.
func NewMoney(paise int64) (Money, error) {
	if paise < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d paise is negative", paise))
	}
	return Money{paise: paise}, nil
}

// Paise returns the amount in minor units.
func (m Money) Paise() int64 {
	return m.paise
}

// Rupees returns the amount in major units for display only.
// Never use the float result in business arithmetic.
func (m Money) Rupees() float64 {
	return float64(m.paise) / 100
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{paise: m.paise + other.paise}
}

// Sub returns the difference of two amounts. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{paise: m.paise - other.paise}
}

// MulBasisPoints returns the amount scaled by bp basis points, rounded down.
// 800bp of 10000 paise is 800 paise.
func (m Money) MulBasisPoints(bp int64) Money {
	return Money{paise: m.paise * bp / basisPointsDenominator}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.paise == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.paise < 0
}

// IsEqual compares two amounts.
func (m Money) IsEqual(other Money) bool {
	return m.paise == other.paise
}

// String renders the amount as rupees with two decimals, e.g. "₹124.50".
func (m Money) String() string {
	return fmt.Sprintf("₹%d.%02d", m.paise/100, m.paise%100)
}

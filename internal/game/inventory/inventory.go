// Package inventory models a player's item holdings as an immutable ledger of
// non-negative decimal quantities. Every mutating operation returns a fresh
// inventory; receivers are never written through.
package inventory

import (
	"github.com/shopspring/decimal"

	apperrors "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/errors"
)

// BlockBuck is the funding currency for banner purchases.
const BlockBuck ItemName = "Block Buck"

// ItemName identifies an inventory item.
type ItemName string

// Inventory maps item names to quantities. Absence means zero. Quantities are
// non-negative at all times; attempts to construct a negative quantity are
// programming-contract violations, never silently clamped.
type Inventory map[ItemName]decimal.Decimal

var (
	// ErrNegativeAmount indicates a credit or debit with a negative amount.
	ErrNegativeAmount = apperrors.New(apperrors.CodeNegativeAmount, "amount must not be negative")
	// ErrInsufficientFunds indicates a debit exceeding the current quantity.
	ErrInsufficientFunds = apperrors.New(apperrors.CodeInsufficientFunds, "insufficient quantity")
)

// Quantity returns the quantity of an item, zero when absent.
func (inv Inventory) Quantity(name ItemName) decimal.Decimal {
	if qty, ok := inv[name]; ok {
		return qty
	}
	return decimal.Zero
}

// Has reports whether the item is held with a positive quantity.
func (inv Inventory) Has(name ItemName) bool {
	return inv.Quantity(name).GreaterThan(decimal.Zero)
}

// Credit returns a new inventory with the amount added to the item.
func (inv Inventory) Credit(name ItemName, amount decimal.Decimal) (Inventory, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	next := inv.Clone()
	next[name] = inv.Quantity(name).Add(amount)
	return next, nil
}

// Debit returns a new inventory with the amount removed from the item. The
// ledger never goes negative: over-debits fail hard here even if a validator
// upstream should have caught them.
func (inv Inventory) Debit(name ItemName, amount decimal.Decimal) (Inventory, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	current := inv.Quantity(name)
	if current.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}
	next := inv.Clone()
	next[name] = current.Sub(amount)
	return next, nil
}

// Clone returns a structurally independent copy of the inventory.
func (inv Inventory) Clone() Inventory {
	next := make(Inventory, len(inv)+1)
	for name, qty := range inv {
		next[name] = qty
	}
	return next
}

// Equal reports whether two inventories hold the same effective quantities.
// A zero quantity and an absent key compare equal.
func (inv Inventory) Equal(other Inventory) bool {
	for name := range inv {
		if !inv.Quantity(name).Equal(other.Quantity(name)) {
			return false
		}
	}
	for name := range other {
		if !inv.Quantity(name).Equal(other.Quantity(name)) {
			return false
		}
	}
	return true
}

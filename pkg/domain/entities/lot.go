package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a quantity of one ingredient received at one price on one date.
// Quantity and UnitPrice are immutable after receipt; Remaining shrinks as
// production batches consume the lot and grows back when they are reversed.
// Invariant: 0 <= Remaining <= Quantity.
type Lot struct {
	ID           string
	ReceiptID    string
	IngredientID IngredientID
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Remaining    decimal.Decimal
	ReceiptDate  time.Time
	Reference    string
}

// NewLot creates a validated Lot with Remaining equal to the full quantity.
func NewLot(id, receiptID string, ingredientID IngredientID, quantity, unitPrice decimal.Decimal, receiptDate time.Time, reference string) (*Lot, error) {
	if id == "" {
		return nil, fmt.Errorf("lot id cannot be empty")
	}
	if string(ingredientID) == "" {
		return nil, fmt.Errorf("lot ingredient id cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("lot quantity must be positive, got %s", quantity)
	}
	if unitPrice.IsNegative() {
		return nil, fmt.Errorf("lot unit price cannot be negative, got %s", unitPrice)
	}

	return &Lot{
		ID:           id,
		ReceiptID:    receiptID,
		IngredientID: ingredientID,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Remaining:    quantity,
		ReceiptDate:  receiptDate,
		Reference:    reference,
	}, nil
}

// Consumed returns how much of the lot has been drawn so far.
func (l *Lot) Consumed() decimal.Decimal {
	return l.Quantity.Sub(l.Remaining)
}

// Consume draws amount from the lot's remaining quantity.
func (l *Lot) Consume(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("consume amount cannot be negative, got %s", amount)
	}
	if amount.GreaterThan(l.Remaining) {
		return fmt.Errorf("lot %s has %s remaining, cannot consume %s", l.ID, l.Remaining, amount)
	}
	l.Remaining = l.Remaining.Sub(amount)
	return nil
}

// Restore puts amount back into the lot, clamped at the original quantity.
// It returns the amount actually restored.
func (l *Lot) Restore(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("restore amount cannot be negative, got %s", amount)
	}
	restored := decimal.Min(amount, l.Consumed())
	l.Remaining = l.Remaining.Add(restored)
	return restored, nil
}

package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ResourceKind distinguishes the two consumable resource kinds.
type ResourceKind int

const (
	ResourceIngredient ResourceKind = iota
	ResourceRecipe
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceIngredient:
		return "Ingredient"
	case ResourceRecipe:
		return "Recipe"
	default:
		return "Unknown"
	}
}

// ResourceKey identifies a consumed resource in a consumption trail.
type ResourceKey struct {
	Kind ResourceKind
	ID   string
}

// TrailEntry records one draw from one source. SourceID is the lot or batch
// the amount was taken from; an empty SourceID marks residual demand that
// was priced at the ingredient's fallback cost without any lot backing it.
type TrailEntry struct {
	SourceID   string
	AmountUsed decimal.Decimal
	UnitPrice  decimal.Decimal
	SourceDate time.Time
}

// ConsumptionTrail maps each consumed resource to the ordered draws that
// satisfied it. The trail is what makes a batch exactly reversible.
type ConsumptionTrail map[ResourceKey][]TrailEntry

// Clone returns a deep copy of the trail.
func (t ConsumptionTrail) Clone() ConsumptionTrail {
	if t == nil {
		return nil
	}
	out := make(ConsumptionTrail, len(t))
	for key, entries := range t {
		copied := make([]TrailEntry, len(entries))
		copy(copied, entries)
		out[key] = copied
	}
	return out
}

// BatchState describes how much of a batch is still on hand.
type BatchState int

const (
	BatchActive BatchState = iota
	BatchPartiallyConsumed
	BatchExhausted
)

func (s BatchState) String() string {
	switch s {
	case BatchActive:
		return "Active"
	case BatchPartiallyConsumed:
		return "PartiallyConsumed"
	case BatchExhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// ProductionBatch is the output of one production run. Quantity is what is
// still producible/shippable and shrinks as parent batches or shipments
// consume it; OriginalQuantity and Cost are fixed at production time, so
// the batch's unit cost stays stable no matter how much has been drawn.
type ProductionBatch struct {
	ID               string
	RecipeID         RecipeID
	Quantity         decimal.Decimal
	OriginalQuantity decimal.Decimal
	Date             time.Time
	Cost             decimal.Decimal
	Trail            ConsumptionTrail
}

// NewProductionBatch creates a validated ProductionBatch.
func NewProductionBatch(id string, recipeID RecipeID, quantity decimal.Decimal, date time.Time, cost decimal.Decimal, trail ConsumptionTrail) (*ProductionBatch, error) {
	if id == "" {
		return nil, fmt.Errorf("batch id cannot be empty")
	}
	if string(recipeID) == "" {
		return nil, fmt.Errorf("batch recipe id cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("batch quantity must be positive, got %s", quantity)
	}
	if cost.IsNegative() {
		return nil, fmt.Errorf("batch cost cannot be negative, got %s", cost)
	}

	return &ProductionBatch{
		ID:               id,
		RecipeID:         recipeID,
		Quantity:         quantity,
		OriginalQuantity: quantity,
		Date:             date,
		Cost:             cost,
		Trail:            trail,
	}, nil
}

// UnitCost is the batch cost spread over the originally produced quantity,
// not over what currently remains.
func (b *ProductionBatch) UnitCost() decimal.Decimal {
	if b.OriginalQuantity.IsZero() {
		return decimal.Zero
	}
	return b.Cost.Div(b.OriginalQuantity)
}

// Consumed returns how much of the batch has been drawn so far.
func (b *ProductionBatch) Consumed() decimal.Decimal {
	return b.OriginalQuantity.Sub(b.Quantity)
}

// State reports the batch lifecycle position.
func (b *ProductionBatch) State() BatchState {
	switch {
	case b.Quantity.Equal(b.OriginalQuantity):
		return BatchActive
	case b.Quantity.IsPositive():
		return BatchPartiallyConsumed
	default:
		return BatchExhausted
	}
}

// Consume draws amount from the batch's remaining quantity.
func (b *ProductionBatch) Consume(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("consume amount cannot be negative, got %s", amount)
	}
	if amount.GreaterThan(b.Quantity) {
		return fmt.Errorf("batch %s has %s remaining, cannot consume %s", b.ID, b.Quantity, amount)
	}
	b.Quantity = b.Quantity.Sub(amount)
	return nil
}

// Restore puts amount back into the batch, clamped at the originally
// produced quantity. It returns the amount actually restored.
func (b *ProductionBatch) Restore(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("restore amount cannot be negative, got %s", amount)
	}
	restored := decimal.Min(amount, b.Consumed())
	b.Quantity = b.Quantity.Add(restored)
	return restored, nil
}

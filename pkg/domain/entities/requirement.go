package entities

import "github.com/shopspring/decimal"

// Requirement is one resolved line of a recipe's bill of materials, scaled
// to the target output quantity.
type Requirement struct {
	Kind       ResourceKind
	ResourceID string
	Amount     decimal.Decimal
}

// Shortfall describes one resource whose stock does not cover a requirement.
// The fields feed user-facing messages directly.
type Shortfall struct {
	ResourceName string
	Required     decimal.Decimal
	Available    decimal.Decimal
	Unit         string
}

// Missing returns how much is lacking.
func (s Shortfall) Missing() decimal.Decimal {
	return s.Required.Sub(s.Available)
}

// AvailabilityResult is the outcome of a speculative availability check.
type AvailabilityResult struct {
	CanProduce bool
	Shortfalls []Shortfall
}

package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IngredientID identifies an ingredient in the catalog.
type IngredientID string

// RecipeID identifies a recipe.
type RecipeID string

// Ingredient is a raw material tracked in the inventory. Quantity is the
// denormalized on-hand aggregate and must equal the sum of Remaining over
// the ingredient's lots; only the production engine mutates it. Cost is the
// last known unit price, used only when the lot ledger cannot cover demand.
type Ingredient struct {
	ID          IngredientID
	Name        string
	Unit        string
	Cost        decimal.Decimal
	Quantity    decimal.Decimal
	IsSemiFinal bool
}

// NewIngredient creates a validated Ingredient.
func NewIngredient(id IngredientID, name, unit string, cost decimal.Decimal) (*Ingredient, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("ingredient id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("ingredient name cannot be empty")
	}
	if unit == "" {
		return nil, fmt.Errorf("ingredient unit cannot be empty")
	}
	if cost.IsNegative() {
		return nil, fmt.Errorf("ingredient cost cannot be negative, got %s", cost)
	}

	return &Ingredient{
		ID:       id,
		Name:     name,
		Unit:     unit,
		Cost:     cost,
		Quantity: decimal.Zero,
	}, nil
}

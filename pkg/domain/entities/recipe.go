package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecipeCategory distinguishes intermediate products from shippable ones.
type RecipeCategory int

const (
	SemiFinished RecipeCategory = iota
	Finished
)

func (c RecipeCategory) String() string {
	switch c {
	case SemiFinished:
		return "SemiFinished"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// LineKind tags a recipe line as referencing either an ingredient or a
// sub-recipe. The two references are mutually exclusive.
type LineKind int

const (
	IngredientLine LineKind = iota
	SubRecipeLine
)

func (k LineKind) String() string {
	switch k {
	case IngredientLine:
		return "Ingredient"
	case SubRecipeLine:
		return "SubRecipe"
	default:
		return "Unknown"
	}
}

// RecipeLine is a single line of a recipe's bill of materials. Amount is
// relative to the recipe's Output yield.
type RecipeLine struct {
	Kind         LineKind
	IngredientID IngredientID
	RecipeID     RecipeID
	Amount       decimal.Decimal
}

// NewIngredientLine creates a validated ingredient line.
func NewIngredientLine(ingredientID IngredientID, amount decimal.Decimal) (*RecipeLine, error) {
	if string(ingredientID) == "" {
		return nil, fmt.Errorf("ingredient line requires an ingredient id")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("line amount must be positive, got %s", amount)
	}
	return &RecipeLine{Kind: IngredientLine, IngredientID: ingredientID, Amount: amount}, nil
}

// NewSubRecipeLine creates a validated sub-recipe line.
func NewSubRecipeLine(recipeID RecipeID, amount decimal.Decimal) (*RecipeLine, error) {
	if string(recipeID) == "" {
		return nil, fmt.Errorf("sub-recipe line requires a recipe id")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("line amount must be positive, got %s", amount)
	}
	return &RecipeLine{Kind: SubRecipeLine, RecipeID: recipeID, Amount: amount}, nil
}

// Recipe describes how Output units of a product are made from ordered
// ingredient and sub-recipe lines. Recipes form a directed graph through
// their sub-recipe lines; cycles are rejected by the validator.
type Recipe struct {
	ID         RecipeID
	Name       string
	Items      []RecipeLine
	Output     decimal.Decimal
	OutputUnit string
	Category   RecipeCategory
}

// NewRecipe creates a validated Recipe.
func NewRecipe(id RecipeID, name string, items []RecipeLine, output decimal.Decimal, outputUnit string, category RecipeCategory) (*Recipe, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("recipe id cannot be empty")
	}
	if name == "" {
		return nil, fmt.Errorf("recipe name cannot be empty")
	}
	if !output.IsPositive() {
		return nil, fmt.Errorf("recipe output must be positive, got %s", output)
	}
	for i, line := range items {
		switch line.Kind {
		case IngredientLine:
			if string(line.IngredientID) == "" {
				return nil, fmt.Errorf("recipe %s line %d: missing ingredient id", id, i)
			}
		case SubRecipeLine:
			if string(line.RecipeID) == "" {
				return nil, fmt.Errorf("recipe %s line %d: missing sub-recipe id", id, i)
			}
		default:
			return nil, fmt.Errorf("recipe %s line %d: unknown line kind", id, i)
		}
		if !line.Amount.IsPositive() {
			return nil, fmt.Errorf("recipe %s line %d: amount must be positive, got %s", id, i, line.Amount)
		}
	}

	return &Recipe{
		ID:         id,
		Name:       name,
		Items:      items,
		Output:     output,
		OutputUnit: outputUnit,
		Category:   category,
	}, nil
}

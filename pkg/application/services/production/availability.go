package production

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/repositories"
)

// Checker determines whether current stock covers a requirement set. It is
// strictly read-only, so callers can run it speculatively.
type Checker struct {
	ingredients repositories.IngredientRepository
	recipes     repositories.RecipeRepository
	batches     repositories.BatchRepository
}

// NewChecker creates a new availability checker.
func NewChecker(
	ingredients repositories.IngredientRepository,
	recipes repositories.RecipeRepository,
	batches repositories.BatchRepository,
) *Checker {
	return &Checker{ingredients: ingredients, recipes: recipes, batches: batches}
}

// Check compares each requirement against on-hand stock: the ingredient
// aggregate for ingredient lines, the summed quantity of live batches for
// sub-recipe lines. Sub-recipe lines are skipped when skipSemiFinal is set,
// which callers use when shortfalls are about to be auto-produced.
func (c *Checker) Check(requirements []entities.Requirement, skipSemiFinal bool) (*entities.AvailabilityResult, error) {
	result := &entities.AvailabilityResult{CanProduce: true}

	// Demand is summed per resource before comparing, so duplicate lines
	// for the same resource cannot each pass against the full stock.
	totals := make(map[entities.ResourceKey]decimal.Decimal)
	var keys []entities.ResourceKey
	for _, req := range requirements {
		if req.Kind == entities.ResourceRecipe && skipSemiFinal {
			continue
		}
		key := entities.ResourceKey{Kind: req.Kind, ID: req.ResourceID}
		if _, seen := totals[key]; !seen {
			keys = append(keys, key)
		}
		totals[key] = totals[key].Add(req.Amount)
	}

	for _, key := range keys {
		required := totals[key]
		switch key.Kind {
		case entities.ResourceIngredient:
			ingredient, err := c.ingredients.GetIngredient(entities.IngredientID(key.ID))
			if err != nil {
				return nil, fmt.Errorf("availability check: %w", err)
			}
			if ingredient.Quantity.LessThan(required) {
				result.Shortfalls = append(result.Shortfalls, entities.Shortfall{
					ResourceName: ingredient.Name,
					Required:     required,
					Available:    ingredient.Quantity,
					Unit:         ingredient.Unit,
				})
			}
		case entities.ResourceRecipe:
			recipe, err := c.recipes.GetRecipe(entities.RecipeID(key.ID))
			if err != nil {
				return nil, fmt.Errorf("availability check: %w", err)
			}
			available, err := c.liveQuantity(recipe.ID)
			if err != nil {
				return nil, err
			}
			if available.LessThan(required) {
				result.Shortfalls = append(result.Shortfalls, entities.Shortfall{
					ResourceName: recipe.Name,
					Required:     required,
					Available:    available,
					Unit:         recipe.OutputUnit,
				})
			}
		default:
			return nil, fmt.Errorf("availability check: unknown resource kind %d", key.Kind)
		}
	}

	result.CanProduce = len(result.Shortfalls) == 0
	return result, nil
}

// liveQuantity sums the remaining quantity over all live batches of a recipe.
func (c *Checker) liveQuantity(recipeID entities.RecipeID) (decimal.Decimal, error) {
	batches, err := c.batches.GetLiveBatches(recipeID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("availability check: %w", err)
	}
	total := decimal.Zero
	for _, batch := range batches {
		total = total.Add(batch.Quantity)
	}
	return total, nil
}

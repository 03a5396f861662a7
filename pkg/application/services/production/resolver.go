package production

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/repositories"
)

// Resolver expands a recipe's bill of materials into raw-ingredient and
// sub-recipe requirements at a target output quantity. It never mutates
// state.
type Resolver struct {
	recipes repositories.RecipeRepository
}

// NewResolver creates a new resolver.
func NewResolver(recipes repositories.RecipeRepository) *Resolver {
	return &Resolver{recipes: recipes}
}

// Resolve scales every recipe line by quantity/recipe.Output and returns
// the resulting requirement list in line order.
func (r *Resolver) Resolve(recipe *entities.Recipe, quantity decimal.Decimal) ([]entities.Requirement, error) {
	if !recipe.Output.IsPositive() {
		return nil, &entities.InvalidRecipeError{
			RecipeID: recipe.ID,
			Reason:   fmt.Sprintf("output must be positive, got %s", recipe.Output),
		}
	}
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("target quantity must be positive, got %s", quantity)
	}

	ratio := quantity.Div(recipe.Output)
	requirements := make([]entities.Requirement, 0, len(recipe.Items))

	for _, line := range recipe.Items {
		switch line.Kind {
		case entities.IngredientLine:
			requirements = append(requirements, entities.Requirement{
				Kind:       entities.ResourceIngredient,
				ResourceID: string(line.IngredientID),
				Amount:     line.Amount.Mul(ratio),
			})
		case entities.SubRecipeLine:
			if _, err := r.recipes.GetRecipe(line.RecipeID); err != nil {
				return nil, &entities.InvalidRecipeError{
					RecipeID: recipe.ID,
					Reason:   fmt.Sprintf("references unknown recipe %s", line.RecipeID),
				}
			}
			requirements = append(requirements, entities.Requirement{
				Kind:       entities.ResourceRecipe,
				ResourceID: string(line.RecipeID),
				Amount:     line.Amount.Mul(ratio),
			})
		default:
			return nil, fmt.Errorf("recipe %s: unknown line kind %d", recipe.ID, line.Kind)
		}
	}

	return requirements, nil
}

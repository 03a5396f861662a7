package memory

import (
	"fmt"

	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe storage.
type RecipeRepository struct {
	recipes map[entities.RecipeID]*entities.Recipe
	order   []entities.RecipeID
}

// NewRecipeRepository creates a new in-memory recipe repository.
func NewRecipeRepository() *RecipeRepository {
	return &RecipeRepository{recipes: make(map[entities.RecipeID]*entities.Recipe)}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes into the repository.
func (r *RecipeRepository) LoadRecipes(recipes []*entities.Recipe) error {
	for _, recipe := range recipes {
		if err := r.AddRecipe(recipe); err != nil {
			return err
		}
	}
	return nil
}

// AddRecipe adds a single recipe to the repository.
func (r *RecipeRepository) AddRecipe(recipe *entities.Recipe) error {
	if _, exists := r.recipes[recipe.ID]; exists {
		return fmt.Errorf("recipe already exists: %s", recipe.ID)
	}
	r.recipes[recipe.ID] = recipe
	r.order = append(r.order, recipe.ID)
	return nil
}

// GetRecipe returns the recipe with the given id.
func (r *RecipeRepository) GetRecipe(id entities.RecipeID) (*entities.Recipe, error) {
	recipe, exists := r.recipes[id]
	if !exists {
		return nil, fmt.Errorf("recipe not found: %s", id)
	}
	return recipe, nil
}

// GetAllRecipes returns all recipes in insertion order.
func (r *RecipeRepository) GetAllRecipes() ([]*entities.Recipe, error) {
	out := make([]*entities.Recipe, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.recipes[id])
	}
	return out, nil
}

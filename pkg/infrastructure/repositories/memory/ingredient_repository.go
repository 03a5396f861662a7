package memory

import (
	"fmt"

	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/repositories"
)

// IngredientRepository provides in-memory ingredient storage.
type IngredientRepository struct {
	ingredients map[entities.IngredientID]*entities.Ingredient
	order       []entities.IngredientID
}

// NewIngredientRepository creates a new in-memory ingredient repository.
func NewIngredientRepository() *IngredientRepository {
	return &IngredientRepository{
		ingredients: make(map[entities.IngredientID]*entities.Ingredient),
	}
}

// Verify interface compliance
var _ repositories.IngredientRepository = (*IngredientRepository)(nil)

// LoadIngredients loads ingredients into the repository.
func (r *IngredientRepository) LoadIngredients(ingredients []*entities.Ingredient) error {
	for _, ingredient := range ingredients {
		if err := r.AddIngredient(ingredient); err != nil {
			return err
		}
	}
	return nil
}

// AddIngredient adds a single ingredient to the repository.
func (r *IngredientRepository) AddIngredient(ingredient *entities.Ingredient) error {
	if _, exists := r.ingredients[ingredient.ID]; exists {
		return fmt.Errorf("ingredient already exists: %s", ingredient.ID)
	}
	r.ingredients[ingredient.ID] = ingredient
	r.order = append(r.order, ingredient.ID)
	return nil
}

// GetIngredient returns the ingredient with the given id.
func (r *IngredientRepository) GetIngredient(id entities.IngredientID) (*entities.Ingredient, error) {
	ingredient, exists := r.ingredients[id]
	if !exists {
		return nil, fmt.Errorf("ingredient not found: %s", id)
	}
	return ingredient, nil
}

// GetAllIngredients returns all ingredients in insertion order.
func (r *IngredientRepository) GetAllIngredients() ([]*entities.Ingredient, error) {
	out := make([]*entities.Ingredient, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.ingredients[id])
	}
	return out, nil
}

package repositories

import "github.com/konditer/konditer/pkg/domain/entities"

// IngredientRepository provides access to the ingredient catalog and the
// denormalized on-hand aggregates.
type IngredientRepository interface {
	GetIngredient(id entities.IngredientID) (*entities.Ingredient, error)
	GetAllIngredients() ([]*entities.Ingredient, error)
	LoadIngredients(ingredients []*entities.Ingredient) error
}

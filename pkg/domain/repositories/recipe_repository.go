package repositories

import "github.com/konditer/konditer/pkg/domain/entities"

// RecipeRepository provides access to recipe definitions.
type RecipeRepository interface {
	GetRecipe(id entities.RecipeID) (*entities.Recipe, error)
	GetAllRecipes() ([]*entities.Recipe, error)
	LoadRecipes(recipes []*entities.Recipe) error
}

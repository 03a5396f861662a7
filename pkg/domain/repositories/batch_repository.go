package repositories

import "github.com/konditer/konditer/pkg/domain/entities"

// BatchRepository provides access to production batches.
type BatchRepository interface {
	// GetLiveBatches returns batches of a recipe with remaining quantity,
	// in FIFO order: production date ascending, batch ID ascending on ties.
	GetLiveBatches(recipeID entities.RecipeID) ([]*entities.ProductionBatch, error)
	GetBatch(id string) (*entities.ProductionBatch, error)
	GetAllBatches() ([]*entities.ProductionBatch, error)
	SaveBatch(batch *entities.ProductionBatch) error
	DeleteBatch(id string) error
	LoadBatches(batches []*entities.ProductionBatch) error
}

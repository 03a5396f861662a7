package memory

import (
	"fmt"
	"sort"

	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/repositories"
)

// BatchRepository provides in-memory production batch storage.
type BatchRepository struct {
	batches []*entities.ProductionBatch
	byID    map[string]*entities.ProductionBatch
}

// NewBatchRepository creates a new in-memory batch repository.
func NewBatchRepository() *BatchRepository {
	return &BatchRepository{byID: make(map[string]*entities.ProductionBatch)}
}

// Verify interface compliance
var _ repositories.BatchRepository = (*BatchRepository)(nil)

// LoadBatches loads batches into the repository.
func (r *BatchRepository) LoadBatches(batches []*entities.ProductionBatch) error {
	for _, batch := range batches {
		if err := r.SaveBatch(batch); err != nil {
			return err
		}
	}
	return nil
}

// SaveBatch inserts a batch, or replaces the stored batch with the same id.
func (r *BatchRepository) SaveBatch(batch *entities.ProductionBatch) error {
	if existing, exists := r.byID[batch.ID]; exists {
		for i, b := range r.batches {
			if b == existing {
				r.batches[i] = batch
				break
			}
		}
		r.byID[batch.ID] = batch
		return nil
	}
	r.batches = append(r.batches, batch)
	r.byID[batch.ID] = batch
	return nil
}

// DeleteBatch removes a batch from the repository.
func (r *BatchRepository) DeleteBatch(id string) error {
	batch, exists := r.byID[id]
	if !exists {
		return fmt.Errorf("batch not found: %s", id)
	}
	delete(r.byID, id)
	for i, b := range r.batches {
		if b == batch {
			r.batches = append(r.batches[:i], r.batches[i+1:]...)
			break
		}
	}
	return nil
}

// GetLiveBatches returns a recipe's batches with remaining quantity in
// FIFO order: production date ascending, batch ID ascending on ties.
func (r *BatchRepository) GetLiveBatches(recipeID entities.RecipeID) ([]*entities.ProductionBatch, error) {
	var live []*entities.ProductionBatch
	for _, batch := range r.batches {
		if batch.RecipeID == recipeID && batch.Quantity.IsPositive() {
			live = append(live, batch)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if !live[i].Date.Equal(live[j].Date) {
			return live[i].Date.Before(live[j].Date)
		}
		return live[i].ID < live[j].ID
	})
	return live, nil
}

// GetBatch returns the batch with the given id.
func (r *BatchRepository) GetBatch(id string) (*entities.ProductionBatch, error) {
	batch, exists := r.byID[id]
	if !exists {
		return nil, fmt.Errorf("batch not found: %s", id)
	}
	return batch, nil
}

// GetAllBatches returns all batches in insertion order.
func (r *BatchRepository) GetAllBatches() ([]*entities.ProductionBatch, error) {
	out := make([]*entities.ProductionBatch, len(r.batches))
	copy(out, r.batches)
	return out, nil
}

package production

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/repositories"
)

// RestoreMode identifies which reversal path was taken for a batch.
type RestoreMode int

const (
	// ExactTrail replays the batch's recorded consumption trail, giving
	// every lot and batch back exactly what was drawn from it.
	ExactTrail RestoreMode = iota
	// HeuristicRatio is the legacy path for batches without a trail: it
	// restores recipe-ratio amounts into the newest sources first, bounded
	// by their already-consumed amounts. It does not guarantee exact
	// reversal.
	HeuristicRatio
)

func (m RestoreMode) String() string {
	switch m {
	case ExactTrail:
		return "ExactTrail"
	case HeuristicRatio:
		return "HeuristicRatio"
	default:
		return "Unknown"
	}
}

// journal records every mutation a restoration performed so the whole
// restoration can be reverted if a follow-up step fails.
type journal struct {
	reverts []func()
}

func (j *journal) record(revert func()) {
	j.reverts = append(j.reverts, revert)
}

// revert undoes the journaled mutations in reverse order.
func (j *journal) revert() {
	for i := len(j.reverts) - 1; i >= 0; i-- {
		j.reverts[i]()
	}
	j.reverts = nil
}

// restorer reverses a production batch's effect on the lot ledger, the
// ingredient aggregates and semi-final stock.
type restorer struct {
	ingredients repositories.IngredientRepository
	lots        repositories.LotRepository
	recipes     repositories.RecipeRepository
	batches     repositories.BatchRepository
	resolver    *Resolver
}

func newRestorer(
	ingredients repositories.IngredientRepository,
	lots repositories.LotRepository,
	recipes repositories.RecipeRepository,
	batches repositories.BatchRepository,
	resolver *Resolver,
) *restorer {
	return &restorer{
		ingredients: ingredients,
		lots:        lots,
		recipes:     recipes,
		batches:     batches,
		resolver:    resolver,
	}
}

// restore reverses the batch's consumption. It picks ExactTrail when the
// batch carries a trail and falls back to HeuristicRatio otherwise.
func (r *restorer) restore(batch *entities.ProductionBatch) (RestoreMode, *journal, error) {
	j := &journal{}
	if len(batch.Trail) > 0 {
		if err := r.restoreExact(batch, j); err != nil {
			j.revert()
			return ExactTrail, nil, err
		}
		return ExactTrail, j, nil
	}
	if err := r.restoreHeuristic(batch, j); err != nil {
		j.revert()
		return HeuristicRatio, nil, err
	}
	return HeuristicRatio, j, nil
}

// restoreExact replays the consumption trail backwards. Lot and batch
// restores are clamped at their original quantities; the ingredient
// aggregate is credited the full per-ingredient total, fallback-priced
// residue included, because the aggregate was charged that much.
func (r *restorer) restoreExact(batch *entities.ProductionBatch, j *journal) error {
	for key, entries := range batch.Trail {
		switch key.Kind {
		case entities.ResourceIngredient:
			ingredient, err := r.ingredients.GetIngredient(entities.IngredientID(key.ID))
			if err != nil {
				return fmt.Errorf("restore batch %s: %w", batch.ID, err)
			}
			total := decimal.Zero
			for _, entry := range entries {
				total = total.Add(entry.AmountUsed)
				if entry.SourceID == "" {
					continue
				}
				lot, err := r.lots.GetLot(entry.SourceID)
				if err != nil {
					return fmt.Errorf("restore batch %s: %w", batch.ID, err)
				}
				restored, err := lot.Restore(entry.AmountUsed)
				if err != nil {
					return fmt.Errorf("restore batch %s: %w", batch.ID, err)
				}
				j.record(func() { lot.Remaining = lot.Remaining.Sub(restored) })
			}
			ingredient.Quantity = ingredient.Quantity.Add(total)
			j.record(func() { ingredient.Quantity = ingredient.Quantity.Sub(total) })
		case entities.ResourceRecipe:
			for _, entry := range entries {
				source, err := r.batches.GetBatch(entry.SourceID)
				if err != nil {
					return fmt.Errorf("restore batch %s: %w", batch.ID, err)
				}
				restored, err := source.Restore(entry.AmountUsed)
				if err != nil {
					return fmt.Errorf("restore batch %s: %w", batch.ID, err)
				}
				j.record(func() { source.Quantity = source.Quantity.Sub(restored) })
			}
		default:
			return fmt.Errorf("restore batch %s: unknown resource kind %d", batch.ID, key.Kind)
		}
	}
	return nil
}

// restoreHeuristic reverses a trail-less batch by recipe ratio: the
// ingredient aggregates are credited the resolved amounts, lots are
// refilled newest-first bounded by what each has consumed, and semi-final
// stock is refilled against the newest batches the same way.
func (r *restorer) restoreHeuristic(batch *entities.ProductionBatch, j *journal) error {
	recipe, err := r.recipes.GetRecipe(batch.RecipeID)
	if err != nil {
		return fmt.Errorf("restore batch %s: %w", batch.ID, err)
	}
	requirements, err := r.resolver.Resolve(recipe, batch.OriginalQuantity)
	if err != nil {
		return fmt.Errorf("restore batch %s: %w", batch.ID, err)
	}

	for _, req := range requirements {
		switch req.Kind {
		case entities.ResourceIngredient:
			if err := r.heuristicRestoreIngredient(entities.IngredientID(req.ResourceID), req.Amount, j); err != nil {
				return fmt.Errorf("restore batch %s: %w", batch.ID, err)
			}
		case entities.ResourceRecipe:
			if err := r.heuristicRestoreSemiFinal(entities.RecipeID(req.ResourceID), req.Amount, j); err != nil {
				return fmt.Errorf("restore batch %s: %w", batch.ID, err)
			}
		}
	}
	return nil
}

func (r *restorer) heuristicRestoreIngredient(id entities.IngredientID, amount decimal.Decimal, j *journal) error {
	ingredient, err := r.ingredients.GetIngredient(id)
	if err != nil {
		return err
	}
	ingredient.Quantity = ingredient.Quantity.Add(amount)
	j.record(func() { ingredient.Quantity = ingredient.Quantity.Sub(amount) })

	lots, err := r.lots.GetLots(id)
	if err != nil {
		return err
	}

	// Newest lots first: reverse of the FIFO consumption order.
	remaining := amount
	for i := len(lots) - 1; i >= 0 && remaining.IsPositive(); i-- {
		lot := lots[i]
		restored, err := lot.Restore(remaining)
		if err != nil {
			return err
		}
		if restored.IsPositive() {
			j.record(func() { lot.Remaining = lot.Remaining.Sub(restored) })
			remaining = remaining.Sub(restored)
		}
	}
	return nil
}

func (r *restorer) heuristicRestoreSemiFinal(id entities.RecipeID, amount decimal.Decimal, j *journal) error {
	all, err := r.batches.GetAllBatches()
	if err != nil {
		return err
	}
	var candidates []*entities.ProductionBatch
	for _, b := range all {
		if b.RecipeID == id {
			candidates = append(candidates, b)
		}
	}
	// Newest batches first; exhausted batches are eligible too.
	sort.Slice(candidates, func(i, k int) bool {
		if !candidates[i].Date.Equal(candidates[k].Date) {
			return candidates[i].Date.After(candidates[k].Date)
		}
		return candidates[i].ID > candidates[k].ID
	})

	remaining := amount
	for _, b := range candidates {
		if !remaining.IsPositive() {
			break
		}
		restored, err := b.Restore(remaining)
		if err != nil {
			return err
		}
		if restored.IsPositive() {
			b := b
			restored := restored
			j.record(func() { b.Quantity = b.Quantity.Sub(restored) })
			remaining = remaining.Sub(restored)
		}
	}
	return nil
}

package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/application/dto"
	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/repositories"
	"github.com/konditer/konditer/pkg/infrastructure/events"
)

// Service is the production engine facade: it resolves bills of materials,
// checks availability, produces batches (recursively auto-producing
// semi-finals), and reverses batches on delete or quantity change.
//
// The engine owns no state of its own; all stock lives in the repositories
// handed in, and callers are expected to serialize mutations (single
// writer, per the synchronous execution model).
type Service struct {
	ingredients repositories.IngredientRepository
	lots        repositories.LotRepository
	recipes     repositories.RecipeRepository
	batches     repositories.BatchRepository

	resolver *Resolver
	checker  *Checker
	restorer *restorer
	log      *events.Log
	newID    func() string
}

// NewService creates a production service over the given repositories.
func NewService(
	ingredients repositories.IngredientRepository,
	lots repositories.LotRepository,
	recipes repositories.RecipeRepository,
	batches repositories.BatchRepository,
) *Service {
	resolver := NewResolver(recipes)
	return &Service{
		ingredients: ingredients,
		lots:        lots,
		recipes:     recipes,
		batches:     batches,
		resolver:    resolver,
		checker:     NewChecker(ingredients, recipes, batches),
		restorer:    newRestorer(ingredients, lots, recipes, batches, resolver),
		newID:       uuid.NewString,
	}
}

// AttachEventLog makes the service record production events.
func (s *Service) AttachEventLog(log *events.Log) {
	s.log = log
}

func (s *Service) emit(event events.Event) {
	if s.log != nil {
		s.log.Append(event)
	}
}

// ResolveRequirements expands a recipe to its requirement list at the
// target quantity. Pure; no state is touched beyond recipe lookups.
func (s *Service) ResolveRequirements(ctx context.Context, recipeID entities.RecipeID, quantity decimal.Decimal) ([]entities.Requirement, error) {
	recipe, err := s.recipes.GetRecipe(recipeID)
	if err != nil {
		return nil, fmt.Errorf("resolve requirements: %w", err)
	}
	return s.resolver.Resolve(recipe, quantity)
}

// CheckAvailability reports whether current stock covers the requirements.
// Read-only; safe to call speculatively.
func (s *Service) CheckAvailability(ctx context.Context, requirements []entities.Requirement, skipSemiFinal bool) (*entities.AvailabilityResult, error) {
	return s.checker.Check(requirements, skipSemiFinal)
}

// Produce creates a production batch for the recipe at the given quantity,
// consuming ingredient lots FIFO and semi-final batches FIFO. With
// autoProduceSemiFinals set, semi-final shortfalls are produced recursively
// before the parent batch consumes them. On InsufficientStockError nothing
// has been mutated, at any recursion depth.
func (s *Service) Produce(ctx context.Context, recipeID entities.RecipeID, quantity decimal.Decimal, date time.Time, autoProduceSemiFinals bool) (*dto.ProduceResult, error) {
	recipe, err := s.recipes.GetRecipe(recipeID)
	if err != nil {
		return nil, fmt.Errorf("produce: %w", err)
	}

	view := newPlanView(s.ingredients, s.lots, s.batches)
	plan, err := s.buildPlan(recipe, quantity, date, s.newID(), autoProduceSemiFinals, view, make(map[entities.RecipeID]bool), nil)
	if err != nil {
		return nil, err
	}

	batch, autoProduced, err := s.applyPlan(plan)
	if err != nil {
		return nil, err
	}

	for _, sub := range autoProduced {
		s.emit(events.Event{Type: events.BatchProduced, StreamID: sub.ID, Data: events.BatchPayload{
			BatchID: sub.ID, RecipeID: sub.RecipeID, Quantity: sub.OriginalQuantity, Cost: sub.Cost,
		}})
	}
	s.emit(events.Event{Type: events.BatchProduced, StreamID: batch.ID, Data: events.BatchPayload{
		BatchID: batch.ID, RecipeID: batch.RecipeID, Quantity: batch.OriginalQuantity, Cost: batch.Cost,
	}})

	return &dto.ProduceResult{
		Batch:        batch,
		Cost:         batch.Cost,
		Trail:        batch.Trail,
		AutoProduced: autoProduced,
		Breakdown:    breakdown(plan),
	}, nil
}

// RestoreForDelete reverses a batch's consumption and removes the batch.
func (s *Service) RestoreForDelete(ctx context.Context, batchID string) error {
	batch, err := s.batches.GetBatch(batchID)
	if err != nil {
		return fmt.Errorf("restore for delete: %w", err)
	}

	if _, _, err := s.restorer.restore(batch); err != nil {
		return err
	}
	if err := s.batches.DeleteBatch(batchID); err != nil {
		return fmt.Errorf("restore for delete: %w", err)
	}

	s.emit(events.Event{Type: events.BatchDeleted, StreamID: batch.ID, Data: events.BatchPayload{
		BatchID: batch.ID, RecipeID: batch.RecipeID, Quantity: batch.OriginalQuantity, Cost: batch.Cost,
	}})
	return nil
}

// RestoreForQuantityChange re-produces a batch at a new quantity: full
// restoration at the old quantity followed by a fresh consumption at the
// new one, not a delta. If the fresh consumption cannot be planned, the
// restoration is rolled back and the batch is left unchanged.
func (s *Service) RestoreForQuantityChange(ctx context.Context, batchID string, newQuantity decimal.Decimal, autoProduceSemiFinals bool) (*dto.ProduceResult, error) {
	if !newQuantity.IsPositive() {
		return nil, fmt.Errorf("restore for quantity change: new quantity must be positive, got %s (use RestoreForDelete to remove the batch)", newQuantity)
	}
	batch, err := s.batches.GetBatch(batchID)
	if err != nil {
		return nil, fmt.Errorf("restore for quantity change: %w", err)
	}
	recipe, err := s.recipes.GetRecipe(batch.RecipeID)
	if err != nil {
		return nil, fmt.Errorf("restore for quantity change: %w", err)
	}

	_, j, err := s.restorer.restore(batch)
	if err != nil {
		return nil, err
	}

	view := newPlanView(s.ingredients, s.lots, s.batches)
	plan, err := s.buildPlan(recipe, newQuantity, batch.Date, batch.ID, autoProduceSemiFinals, view, make(map[entities.RecipeID]bool), nil)
	if err != nil {
		j.revert()
		return nil, err
	}

	replacement, autoProduced, err := s.applyPlan(plan)
	if err != nil {
		return nil, err
	}

	for _, sub := range autoProduced {
		s.emit(events.Event{Type: events.BatchProduced, StreamID: sub.ID, Data: events.BatchPayload{
			BatchID: sub.ID, RecipeID: sub.RecipeID, Quantity: sub.OriginalQuantity, Cost: sub.Cost,
		}})
	}
	s.emit(events.Event{Type: events.BatchResized, StreamID: replacement.ID, Data: events.BatchPayload{
		BatchID: replacement.ID, RecipeID: replacement.RecipeID, Quantity: replacement.OriginalQuantity, Cost: replacement.Cost,
	}})

	return &dto.ProduceResult{
		Batch:        replacement,
		Cost:         replacement.Cost,
		Trail:        replacement.Trail,
		AutoProduced: autoProduced,
		Breakdown:    breakdown(plan),
	}, nil
}

// ReceiptLine is one line of an incoming receipt.
type ReceiptLine struct {
	IngredientID entities.IngredientID
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Reference    string
}

// RecordReceipt creates a lot per line and credits the ingredient
// aggregates. The ingredient's fallback cost is updated to the received
// unit price, keeping it the last known price.
func (s *Service) RecordReceipt(ctx context.Context, receiptID string, date time.Time, lines []ReceiptLine) ([]*entities.Lot, error) {
	created := make([]*entities.Lot, 0, len(lines))
	for i, line := range lines {
		ingredient, err := s.ingredients.GetIngredient(line.IngredientID)
		if err != nil {
			return nil, fmt.Errorf("record receipt line %d: %w", i, err)
		}
		lot, err := entities.NewLot(s.newID(), receiptID, line.IngredientID, line.Quantity, line.UnitPrice, date, line.Reference)
		if err != nil {
			return nil, fmt.Errorf("record receipt line %d: %w", i, err)
		}
		if err := s.lots.AddLot(lot); err != nil {
			return nil, fmt.Errorf("record receipt line %d: %w", i, err)
		}
		ingredient.Quantity = ingredient.Quantity.Add(line.Quantity)
		ingredient.Cost = line.UnitPrice
		created = append(created, lot)
	}

	lotIDs := make([]string, len(created))
	for i, lot := range created {
		lotIDs[i] = lot.ID
	}
	s.emit(events.Event{Type: events.ReceiptRecorded, StreamID: receiptID, Data: events.ReceiptPayload{
		ReceiptID: receiptID, LotIDs: lotIDs,
	}})
	return created, nil
}

// ShipFromBatch decrements a batch's remaining quantity for a shipment.
func (s *Service) ShipFromBatch(ctx context.Context, batchID string, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("ship from batch: quantity must be positive, got %s", quantity)
	}
	batch, err := s.batches.GetBatch(batchID)
	if err != nil {
		return fmt.Errorf("ship from batch: %w", err)
	}
	if quantity.GreaterThan(batch.Quantity) {
		recipe, err := s.recipes.GetRecipe(batch.RecipeID)
		if err != nil {
			return fmt.Errorf("ship from batch: %w", err)
		}
		return &entities.InsufficientStockError{Shortfalls: []entities.Shortfall{{
			ResourceName: recipe.Name,
			Required:     quantity,
			Available:    batch.Quantity,
			Unit:         recipe.OutputUnit,
		}}}
	}
	if err := batch.Consume(quantity); err != nil {
		return fmt.Errorf("ship from batch: %w", err)
	}

	s.emit(events.Event{Type: events.BatchShipped, StreamID: batch.ID, Data: events.ShipmentPayload{
		BatchID: batch.ID, Quantity: quantity,
	}})
	return nil
}

// buildPlan recursively plans a production run against the virtual view.
// Sub-recipe shortfalls are planned first so the parent's ingredient
// availability accounts for what auto-production will consume. Any failure
// discards the whole plan with nothing mutated.
func (s *Service) buildPlan(
	recipe *entities.Recipe,
	quantity decimal.Decimal,
	date time.Time,
	batchID string,
	autoProduce bool,
	view *planView,
	visiting map[entities.RecipeID]bool,
	path []entities.RecipeID,
) (*productionPlan, error) {
	if visiting[recipe.ID] {
		return nil, &entities.CyclicRecipeError{Path: append(append([]entities.RecipeID{}, path...), recipe.ID)}
	}
	visiting[recipe.ID] = true
	defer delete(visiting, recipe.ID)
	path = append(path, recipe.ID)

	requirements, err := s.resolver.Resolve(recipe, quantity)
	if err != nil {
		return nil, err
	}

	plan := &productionPlan{
		batchID:  batchID,
		recipe:   recipe,
		quantity: quantity,
		date:     date,
		cost:     decimal.Zero,
	}
	var shortfalls []entities.Shortfall

	// A recipe may repeat an ingredient or sub-recipe across lines, and
	// availability is a property of the summed demand, not of each line
	// against the full stock. Sum per resource, first appearance order.
	ingredientTotals := make(map[entities.IngredientID]decimal.Decimal)
	recipeTotals := make(map[entities.RecipeID]decimal.Decimal)
	var ingredientIDs []entities.IngredientID
	var recipeIDs []entities.RecipeID
	for _, req := range requirements {
		switch req.Kind {
		case entities.ResourceIngredient:
			id := entities.IngredientID(req.ResourceID)
			if _, seen := ingredientTotals[id]; !seen {
				ingredientIDs = append(ingredientIDs, id)
			}
			ingredientTotals[id] = ingredientTotals[id].Add(req.Amount)
		case entities.ResourceRecipe:
			id := entities.RecipeID(req.ResourceID)
			if _, seen := recipeTotals[id]; !seen {
				recipeIDs = append(recipeIDs, id)
			}
			recipeTotals[id] = recipeTotals[id].Add(req.Amount)
		}
	}

	// Sub-recipe demand first: shortfalls either abort the plan or spawn
	// sub-plans whose ingredient draws the parent must see.
	for _, id := range recipeIDs {
		sub, err := s.recipes.GetRecipe(id)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", recipe.ID, err)
		}
		required := recipeTotals[id]
		available, err := view.semiFinalAvailable(sub.ID)
		if err != nil {
			return nil, err
		}
		if !available.LessThan(required) {
			continue
		}
		if !autoProduce {
			shortfalls = append(shortfalls, entities.Shortfall{
				ResourceName: sub.Name,
				Required:     required,
				Available:    available,
				Unit:         sub.OutputUnit,
			})
			continue
		}
		shortfall := required.Sub(available)
		subPlan, err := s.buildPlan(sub, shortfall, date, s.newID(), autoProduce, view, visiting, path)
		if err != nil {
			return nil, err
		}
		view.addPlanned(&plannedBatch{
			id:        subPlan.batchID,
			recipeID:  sub.ID,
			remaining: shortfall,
			unitCost:  subPlan.cost.Div(shortfall),
			date:      date,
		})
		plan.subPlans = append(plan.subPlans, subPlan)
	}

	for _, id := range ingredientIDs {
		ingredient, err := s.ingredients.GetIngredient(id)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", recipe.ID, err)
		}
		if view.aggregateLeft(ingredient).LessThan(ingredientTotals[id]) {
			shortfalls = append(shortfalls, entities.Shortfall{
				ResourceName: ingredient.Name,
				Required:     ingredientTotals[id],
				Available:    view.aggregateLeft(ingredient),
				Unit:         ingredient.Unit,
			})
		}
	}

	if len(shortfalls) > 0 {
		return nil, &entities.InsufficientStockError{Shortfalls: shortfalls}
	}

	// All requirements covered; plan the draws in line order.
	for _, req := range requirements {
		switch req.Kind {
		case entities.ResourceIngredient:
			ingredient, err := s.ingredients.GetIngredient(entities.IngredientID(req.ResourceID))
			if err != nil {
				return nil, fmt.Errorf("plan %s: %w", recipe.ID, err)
			}
			draw, err := view.planIngredient(ingredient, req.Amount)
			if err != nil {
				return nil, err
			}
			plan.ingredients = append(plan.ingredients, draw)
			plan.cost = plan.cost.Add(draw.cost)
		case entities.ResourceRecipe:
			sub, err := s.recipes.GetRecipe(entities.RecipeID(req.ResourceID))
			if err != nil {
				return nil, fmt.Errorf("plan %s: %w", recipe.ID, err)
			}
			draw, err := view.planSemiFinal(sub, req.Amount)
			if err != nil {
				return nil, err
			}
			plan.semiFinals = append(plan.semiFinals, draw)
			plan.cost = plan.cost.Add(draw.cost)
		}
	}

	return plan, nil
}

// applyPlan commits a validated plan: sub-plans depth-first, then the
// parent's draws, then the batch itself with its consumption trail.
func (s *Service) applyPlan(plan *productionPlan) (*entities.ProductionBatch, []*entities.ProductionBatch, error) {
	var autoProduced []*entities.ProductionBatch
	for _, subPlan := range plan.subPlans {
		sub, nested, err := s.applyPlan(subPlan)
		if err != nil {
			return nil, nil, err
		}
		autoProduced = append(autoProduced, nested...)
		autoProduced = append(autoProduced, sub)
	}

	for _, draw := range plan.ingredients {
		for _, ld := range draw.lots {
			lot, err := s.lots.GetLot(ld.lotID)
			if err != nil {
				return nil, nil, fmt.Errorf("apply plan %s: %w", plan.batchID, err)
			}
			if err := lot.Consume(ld.amount); err != nil {
				return nil, nil, fmt.Errorf("apply plan %s: %w", plan.batchID, err)
			}
		}
		ingredient, err := s.ingredients.GetIngredient(draw.ingredientID)
		if err != nil {
			return nil, nil, fmt.Errorf("apply plan %s: %w", plan.batchID, err)
		}
		ingredient.Quantity = ingredient.Quantity.Sub(draw.required)
	}

	for _, draw := range plan.semiFinals {
		for _, bd := range draw.batches {
			batch, err := s.batches.GetBatch(bd.batchID)
			if err != nil {
				return nil, nil, fmt.Errorf("apply plan %s: %w", plan.batchID, err)
			}
			if err := batch.Consume(bd.amount); err != nil {
				return nil, nil, fmt.Errorf("apply plan %s: %w", plan.batchID, err)
			}
		}
	}

	batch, err := entities.NewProductionBatch(plan.batchID, plan.recipe.ID, plan.quantity, plan.date, plan.cost, plan.trail())
	if err != nil {
		return nil, nil, fmt.Errorf("apply plan %s: %w", plan.batchID, err)
	}
	if err := s.batches.SaveBatch(batch); err != nil {
		return nil, nil, fmt.Errorf("apply plan %s: %w", plan.batchID, err)
	}

	return batch, autoProduced, nil
}

// breakdown attributes the plan's cost to the top-level recipe's directly
// consumed resources.
func breakdown(plan *productionPlan) []dto.CostComponent {
	components := make([]dto.CostComponent, 0, len(plan.ingredients)+len(plan.semiFinals))
	for _, draw := range plan.ingredients {
		components = append(components, dto.CostComponent{
			Kind:         entities.ResourceIngredient,
			ResourceID:   string(draw.ingredientID),
			ResourceName: draw.ingredientName,
			Amount:       draw.required,
			Cost:         draw.cost,
		})
	}
	for _, draw := range plan.semiFinals {
		components = append(components, dto.CostComponent{
			Kind:         entities.ResourceRecipe,
			ResourceID:   string(draw.recipeID),
			ResourceName: draw.recipeName,
			Amount:       draw.required,
			Cost:         draw.cost,
		})
	}
	return components
}

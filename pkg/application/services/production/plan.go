package production

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/konditer/konditer/pkg/domain/entities"
	"github.com/konditer/konditer/pkg/domain/repositories"
)

// Production is planned in two phases: a pure planning pass computes every
// draw against a virtual view of stock, and only a fully validated plan is
// applied to the repositories. A failed plan leaves no trace, which is what
// makes recursive auto-production atomic.

// lotDraw is one planned draw from one lot.
type lotDraw struct {
	lotID       string
	amount      decimal.Decimal
	unitPrice   decimal.Decimal
	receiptDate time.Time
}

// ingredientDraw is the planned consumption of one ingredient requirement.
// The aggregate is charged the full required amount even when the lot
// ledger cannot cover it; the uncovered residual is priced at the
// ingredient's fallback cost and backed by no lot.
type ingredientDraw struct {
	ingredientID   entities.IngredientID
	ingredientName string
	unit           string
	required       decimal.Decimal
	lots           []lotDraw
	fallbackAmount decimal.Decimal
	fallbackPrice  decimal.Decimal
	cost           decimal.Decimal
}

// batchDraw is one planned draw from one semi-final batch.
type batchDraw struct {
	batchID  string
	amount   decimal.Decimal
	unitCost decimal.Decimal
	date     time.Time
}

// semiFinalDraw is the planned consumption of one sub-recipe requirement.
type semiFinalDraw struct {
	recipeID   entities.RecipeID
	recipeName string
	unit       string
	required   decimal.Decimal
	batches    []batchDraw
	cost       decimal.Decimal
}

// productionPlan is a validated, not-yet-applied production run. Sub-plans
// cover auto-produced semi-final shortfalls and are applied first; their
// batch IDs are minted at planning time so the parent's draws can
// reference them.
type productionPlan struct {
	batchID     string
	recipe      *entities.Recipe
	quantity    decimal.Decimal
	date        time.Time
	ingredients []ingredientDraw
	semiFinals  []semiFinalDraw
	subPlans    []*productionPlan
	cost        decimal.Decimal
}

// trail materializes the plan's draws as a consumption trail.
func (p *productionPlan) trail() entities.ConsumptionTrail {
	trail := make(entities.ConsumptionTrail)
	for _, draw := range p.ingredients {
		key := entities.ResourceKey{Kind: entities.ResourceIngredient, ID: string(draw.ingredientID)}
		for _, ld := range draw.lots {
			trail[key] = append(trail[key], entities.TrailEntry{
				SourceID:   ld.lotID,
				AmountUsed: ld.amount,
				UnitPrice:  ld.unitPrice,
				SourceDate: ld.receiptDate,
			})
		}
		if draw.fallbackAmount.IsPositive() {
			trail[key] = append(trail[key], entities.TrailEntry{
				AmountUsed: draw.fallbackAmount,
				UnitPrice:  draw.fallbackPrice,
			})
		}
	}
	for _, draw := range p.semiFinals {
		key := entities.ResourceKey{Kind: entities.ResourceRecipe, ID: string(draw.recipeID)}
		for _, bd := range draw.batches {
			trail[key] = append(trail[key], entities.TrailEntry{
				SourceID:   bd.batchID,
				AmountUsed: bd.amount,
				UnitPrice:  bd.unitCost,
				SourceDate: bd.date,
			})
		}
	}
	return trail
}

// plannedBatch is a sub-batch that exists only inside a plan. It becomes a
// real ProductionBatch when the plan is applied.
type plannedBatch struct {
	id        string
	recipeID  entities.RecipeID
	remaining decimal.Decimal
	unitCost  decimal.Decimal
	date      time.Time
}

// planView overlays planned consumption on top of repository state so that
// nested plans see each other's draws without anything being mutated.
type planView struct {
	ingredients repositories.IngredientRepository
	lots        repositories.LotRepository
	batches     repositories.BatchRepository

	lotRemaining   map[string]decimal.Decimal
	aggregate      map[entities.IngredientID]decimal.Decimal
	batchRemaining map[string]decimal.Decimal
	planned        map[entities.RecipeID][]*plannedBatch
}

func newPlanView(
	ingredients repositories.IngredientRepository,
	lots repositories.LotRepository,
	batches repositories.BatchRepository,
) *planView {
	return &planView{
		ingredients:    ingredients,
		lots:           lots,
		batches:        batches,
		lotRemaining:   make(map[string]decimal.Decimal),
		aggregate:      make(map[entities.IngredientID]decimal.Decimal),
		batchRemaining: make(map[string]decimal.Decimal),
		planned:        make(map[entities.RecipeID][]*plannedBatch),
	}
}

func (v *planView) lotLeft(lot *entities.Lot) decimal.Decimal {
	if left, ok := v.lotRemaining[lot.ID]; ok {
		return left
	}
	return lot.Remaining
}

func (v *planView) takeFromLot(lot *entities.Lot, amount decimal.Decimal) {
	v.lotRemaining[lot.ID] = v.lotLeft(lot).Sub(amount)
}

func (v *planView) aggregateLeft(ingredient *entities.Ingredient) decimal.Decimal {
	if left, ok := v.aggregate[ingredient.ID]; ok {
		return left
	}
	return ingredient.Quantity
}

func (v *planView) chargeAggregate(ingredient *entities.Ingredient, amount decimal.Decimal) {
	v.aggregate[ingredient.ID] = v.aggregateLeft(ingredient).Sub(amount)
}

func (v *planView) batchLeft(batch *entities.ProductionBatch) decimal.Decimal {
	if left, ok := v.batchRemaining[batch.ID]; ok {
		return left
	}
	return batch.Quantity
}

func (v *planView) takeFromBatch(batch *entities.ProductionBatch, amount decimal.Decimal) {
	v.batchRemaining[batch.ID] = v.batchLeft(batch).Sub(amount)
}

func (v *planView) addPlanned(batch *plannedBatch) {
	v.planned[batch.recipeID] = append(v.planned[batch.recipeID], batch)
}

// semiFinalAvailable sums planned-remaining stock of a recipe: live batches
// as seen through the view plus batches planned but not yet applied.
func (v *planView) semiFinalAvailable(recipeID entities.RecipeID) (decimal.Decimal, error) {
	live, err := v.batches.GetLiveBatches(recipeID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("plan view: %w", err)
	}
	total := decimal.Zero
	for _, batch := range live {
		total = total.Add(v.batchLeft(batch))
	}
	for _, pb := range v.planned[recipeID] {
		total = total.Add(pb.remaining)
	}
	return total, nil
}

// planIngredient plans FIFO consumption of one ingredient requirement:
// oldest lots first, lot ID breaking date ties, residual demand priced at
// the ingredient's fallback cost. The aggregate is charged the full amount.
func (v *planView) planIngredient(ingredient *entities.Ingredient, amount decimal.Decimal) (ingredientDraw, error) {
	draw := ingredientDraw{
		ingredientID:   ingredient.ID,
		ingredientName: ingredient.Name,
		unit:           ingredient.Unit,
		required:       amount,
		cost:           decimal.Zero,
	}

	lots, err := v.lots.GetLots(ingredient.ID)
	if err != nil {
		return draw, fmt.Errorf("plan ingredient %s: %w", ingredient.ID, err)
	}

	remaining := amount
	for _, lot := range lots {
		if !remaining.IsPositive() {
			break
		}
		left := v.lotLeft(lot)
		if !left.IsPositive() {
			continue
		}
		take := decimal.Min(remaining, left)
		v.takeFromLot(lot, take)
		draw.lots = append(draw.lots, lotDraw{
			lotID:       lot.ID,
			amount:      take,
			unitPrice:   lot.UnitPrice,
			receiptDate: lot.ReceiptDate,
		})
		draw.cost = draw.cost.Add(take.Mul(lot.UnitPrice))
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		draw.fallbackAmount = remaining
		draw.fallbackPrice = ingredient.Cost
		draw.cost = draw.cost.Add(remaining.Mul(ingredient.Cost))
	}

	v.chargeAggregate(ingredient, amount)
	return draw, nil
}

// planSemiFinal plans FIFO consumption of one sub-recipe requirement:
// existing live batches oldest first, then batches planned by the current
// operation in creation order. Unit cost per batch is its cost spread over
// the originally produced quantity.
func (v *planView) planSemiFinal(recipe *entities.Recipe, amount decimal.Decimal) (semiFinalDraw, error) {
	draw := semiFinalDraw{
		recipeID:   recipe.ID,
		recipeName: recipe.Name,
		unit:       recipe.OutputUnit,
		required:   amount,
		cost:       decimal.Zero,
	}

	live, err := v.batches.GetLiveBatches(recipe.ID)
	if err != nil {
		return draw, fmt.Errorf("plan semi-final %s: %w", recipe.ID, err)
	}

	remaining := amount
	for _, batch := range live {
		if !remaining.IsPositive() {
			break
		}
		left := v.batchLeft(batch)
		if !left.IsPositive() {
			continue
		}
		take := decimal.Min(remaining, left)
		v.takeFromBatch(batch, take)
		draw.batches = append(draw.batches, batchDraw{
			batchID:  batch.ID,
			amount:   take,
			unitCost: batch.UnitCost(),
			date:     batch.Date,
		})
		draw.cost = draw.cost.Add(take.Mul(batch.UnitCost()))
		remaining = remaining.Sub(take)
	}

	for _, pb := range v.planned[recipe.ID] {
		if !remaining.IsPositive() {
			break
		}
		if !pb.remaining.IsPositive() {
			continue
		}
		take := decimal.Min(remaining, pb.remaining)
		pb.remaining = pb.remaining.Sub(take)
		draw.batches = append(draw.batches, batchDraw{
			batchID:  pb.id,
			amount:   take,
			unitCost: pb.unitCost,
			date:     pb.date,
		})
		draw.cost = draw.cost.Add(take.Mul(pb.unitCost))
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		return draw, &entities.InsufficientStockError{Shortfalls: []entities.Shortfall{{
			ResourceName: recipe.Name,
			Required:     amount,
			Available:    amount.Sub(remaining),
			Unit:         recipe.OutputUnit,
		}}}
	}

	return draw, nil
}
